package gridroute

// vertexItem is one frontier entry of the A* search.
type vertexItem struct {
	vertex       int
	gScore       float64
	fCost        float64
	indexInQueue int
}

// vertexQueue is a binary heap of frontier entries ordered by fCost.
type vertexQueue []*vertexItem

func (q vertexQueue) Len() int           { return len(q) }
func (q vertexQueue) Less(i, j int) bool { return q[i].fCost < q[j].fCost }
func (q vertexQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].indexInQueue = i
	q[j].indexInQueue = j
}

func (q *vertexQueue) Push(x any) {
	*q = append(*q, x.(*vertexItem))
}

func (q *vertexQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
