package employee

import (
	"context"
	"sort"
	"strings"
)

// ForestOptions は森の組み立て条件です。
type ForestOptions struct {
	// ActiveOnly が true の場合、在籍中の社員のみでツリーを組み立てます。
	ActiveOnly bool
}

// TreeBuilder は現在のノードと辺から組織ツリーを組み立てる読み取り専用の射影です。
type TreeBuilder struct {
	nodes NodeStore
	edges EdgeStore
}

// NewTreeBuilder は TreeBuilder を生成します。
func NewTreeBuilder(nodes NodeStore, edges EdgeStore) *TreeBuilder {
	return &TreeBuilder{nodes: nodes, edges: edges}
}

// BuildForest はノードと辺を 1 回ずつ一括で読み込み、森を返します。
// 2 回の読み込みは同一スナップショットではないため、存在しないノードを指す辺は読み飛ばします。
func (b *TreeBuilder) BuildForest(ctx context.Context, opts ForestOptions) ([]*HierarchyTree, error) {
	filter := NodeFilter{}
	if opts.ActiveOnly {
		active := true
		filter.IsActive = &active
	}

	employees, err := b.nodes.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	edges, err := b.edges.ListEdges(ctx)
	if err != nil {
		return nil, err
	}

	forest := AssembleForest(employees, edges)
	hierarchyForestNodes.Observe(float64(len(employees)))
	return forest, nil
}

// AssembleForest は O(V+E) で森を組み立てます。上長が見つからない社員はルートになります。
func AssembleForest(employees []*Employee, edges []ManagesEdge) []*HierarchyTree {
	byID := make(map[string]*HierarchyTree, len(employees))
	for _, e := range employees {
		if e == nil {
			continue
		}
		byID[e.ID] = &HierarchyTree{Employee: *e, Children: []*HierarchyTree{}}
	}

	attached := make(map[string]struct{}, len(edges))
	for _, edge := range edges {
		parent, ok := byID[edge.ManagerID]
		if !ok {
			continue
		}
		child, ok := byID[edge.SubordinateID]
		if !ok || parent == child {
			continue
		}
		if _, dup := attached[edge.SubordinateID]; dup {
			continue
		}
		attached[edge.SubordinateID] = struct{}{}
		parent.Children = append(parent.Children, child)
	}

	roots := make([]*HierarchyTree, 0, len(byID)-len(attached))
	for id, node := range byID {
		if _, ok := attached[id]; ok {
			continue
		}
		roots = append(roots, node)
	}

	sortTrees(roots)
	return roots
}

func sortTrees(trees []*HierarchyTree) {
	sort.SliceStable(trees, func(i, j int) bool {
		a, b := &trees[i].Employee, &trees[j].Employee
		fa, fb := strings.ToLower(a.FirstName), strings.ToLower(b.FirstName)
		if fa != fb {
			return fa < fb
		}
		la, lb := strings.ToLower(a.LastName), strings.ToLower(b.LastName)
		if la != lb {
			return la < lb
		}
		return a.ID < b.ID
	})
	for _, t := range trees {
		sortTrees(t.Children)
	}
}

// snapshot は一括読み込みしたノードと辺から上長・部下を引けるようにした索引です。
type snapshot struct {
	byID         map[string]*Employee
	managerOf    map[string]string
	subordinates map[string][]*Employee
}

func newSnapshot(employees []*Employee, edges []ManagesEdge) *snapshot {
	g := &snapshot{
		byID:         make(map[string]*Employee, len(employees)),
		managerOf:    make(map[string]string, len(edges)),
		subordinates: make(map[string][]*Employee),
	}
	for _, e := range employees {
		g.byID[e.ID] = e
	}
	for _, edge := range edges {
		sub, ok := g.byID[edge.SubordinateID]
		if !ok {
			continue
		}
		if _, ok := g.byID[edge.ManagerID]; !ok {
			continue
		}
		g.managerOf[edge.SubordinateID] = edge.ManagerID
		g.subordinates[edge.ManagerID] = append(g.subordinates[edge.ManagerID], sub)
	}
	for id := range g.subordinates {
		sortEmployees(g.subordinates[id])
	}
	return g
}

func (g *snapshot) view(e *Employee) *View {
	v := &View{Employee: *e, Subordinates: make([]Summary, 0, len(g.subordinates[e.ID]))}
	if managerID, ok := g.managerOf[e.ID]; ok {
		summary := summarize(g.byID[managerID])
		v.Manager = &summary
	}
	for _, sub := range g.subordinates[e.ID] {
		v.Subordinates = append(v.Subordinates, summarize(sub))
	}
	return v
}
