package contest

import "testing"

func TestRank(t *testing.T) {
	mk := func(id string, total int, p1, p2 float64) Session {
		return Session{ID: id, Scores: Scores{Total: total}, Timings: Timings{Phase1Duration: p1, Phase2Duration: p2}}
	}
	sessions := func() []Session {
		return []Session{
			mk("a", 50, 100, 100),
			mk("b", 70, 300, 300),
			mk("c", 50, 60, 60),
			mk("d", 70, 200, 100),
		}
	}

	tests := []struct {
		order SortOrder
		want  []string
	}{
		{order: SortByScore, want: []string{"d", "b", "c", "a"}},
		{order: SortByTime, want: []string{"c", "a", "d", "b"}},
		{order: "", want: []string{"d", "b", "c", "a"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			ss := sessions()
			Rank(ss, tt.order)
			for i, id := range tt.want {
				if ss[i].ID != id {
					t.Fatalf("position %d = %s, want %s", i, ss[i].ID, id)
				}
			}
		})
	}
}
