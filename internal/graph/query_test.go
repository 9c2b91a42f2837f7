package graph

import (
	"errors"
	"reflect"
	"testing"
)

func querySnapshot() Snapshot {
	return Snapshot{
		Center: "내담자",
		Nodes: []Node{
			{ID: "내담자", Kind: NodeCenter},
			{ID: "친구", Kind: NodePerson},
			{ID: "엄마", Kind: NodePerson},
			{ID: "슬프다", Kind: NodeEmotion},
			{ID: "기쁘다", Kind: NodeEmotion},
		},
		Edges: []Edge{
			{From: "내담자", To: "친구"},
			{From: "내담자", To: "엄마"},
			{From: "친구", To: "슬프다"},
			{From: "엄마", To: "슬프다"},
			{From: "엄마", To: "기쁘다"},
		},
	}
}

func TestSnapshot_Path(t *testing.T) {
	snap := querySnapshot()

	tests := []struct {
		name     string
		from, to string
		depth    int
		want     []string
		wantErr  bool
	}{
		{name: "first edge wins ties", from: "내담자", to: "슬프다", want: []string{"내담자", "친구", "슬프다"}},
		{name: "via second person", from: "내담자", to: "기쁘다", want: []string{"내담자", "엄마", "기쁘다"}},
		{name: "same node", from: "친구", to: "친구", want: []string{"친구"}},
		{name: "edges are directed", from: "슬프다", to: "내담자", want: nil},
		{name: "too deep", from: "내담자", to: "슬프다", depth: 1, want: nil},
		{name: "unknown node", from: "내담자", to: "아빠", wantErr: true},
		{name: "depth out of range", from: "내담자", to: "친구", depth: MaxPathDepth + 1, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := snap.Path(tt.from, tt.to, tt.depth)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Path() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Path() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSnapshot_PathUnknownIsNotFound(t *testing.T) {
	_, err := querySnapshot().Path("", "친구", 0)
	if !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("Path() error = %v, want ErrNodeNotFound", err)
	}
}

func TestSnapshot_Neighborhood(t *testing.T) {
	snap := querySnapshot()

	tests := []struct {
		name       string
		start      string
		depth      int
		wantCenter string
		wantNodes  []string
		wantEdges  [][2]string
	}{
		{
			name:       "one hop keeps center",
			start:      "친구",
			depth:      1,
			wantCenter: "내담자",
			wantNodes:  []string{"내담자", "친구", "슬프다"},
			wantEdges:  [][2]string{{"내담자", "친구"}, {"친구", "슬프다"}},
		},
		{
			name:      "emotion without center",
			start:     "기쁘다",
			depth:     1,
			wantNodes: []string{"엄마", "기쁘다"},
			wantEdges: [][2]string{{"엄마", "기쁘다"}},
		},
		{
			name:       "two hops",
			start:      "기쁘다",
			depth:      2,
			wantCenter: "내담자",
			wantNodes:  []string{"내담자", "엄마", "슬프다", "기쁘다"},
			wantEdges:  [][2]string{{"내담자", "엄마"}, {"엄마", "슬프다"}, {"엄마", "기쁘다"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := snap.Neighborhood(tt.start, tt.depth)
			if err != nil {
				t.Fatalf("Neighborhood() error = %v", err)
			}
			if got.Center != tt.wantCenter {
				t.Errorf("Center = %q, want %q", got.Center, tt.wantCenter)
			}
			var nodes []string
			for _, n := range got.Nodes {
				nodes = append(nodes, n.ID)
			}
			if !reflect.DeepEqual(nodes, tt.wantNodes) {
				t.Errorf("nodes = %v, want %v", nodes, tt.wantNodes)
			}
			var edges [][2]string
			for _, e := range got.Edges {
				edges = append(edges, [2]string{e.From, e.To})
			}
			if !reflect.DeepEqual(edges, tt.wantEdges) {
				t.Errorf("edges = %v, want %v", edges, tt.wantEdges)
			}
		})
	}
}

func TestSnapshot_NeighborhoodErrors(t *testing.T) {
	snap := querySnapshot()
	if _, err := snap.Neighborhood("아빠", 1); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("Neighborhood(unknown) error = %v, want ErrNodeNotFound", err)
	}
	if _, err := snap.Neighborhood("친구", -1); err == nil {
		t.Error("Neighborhood(depth -1) error = nil")
	}
}
