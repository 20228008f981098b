package task

import "fmt"

// GpuNode is one enumerated GPU resource.
type GpuNode struct {
	id string
}

func (g GpuNode) ResourceID() string { return g.id }

// RemoteNode is one enumerated remote worker, reachable by address
// through a messenger.Messenger.
type RemoteNode struct {
	id      string
	Address string
}

func (r RemoteNode) ResourceID() string { return r.id }

// RemoteNodeSelector picks which RemoteNode a remote-capable task should
// be mapped onto. This is left pluggable because the original
// implementation's map_proc_node always picked remotes[0] regardless of
// how many remote nodes were enumerated - SPEC_FULL.md keeps that as the
// default (FirstRemoteNode) while letting a caller substitute a
// load-aware or round-robin policy instead.
type RemoteNodeSelector interface {
	Select(remotes []RemoteNode, n *Node) (RemoteNode, error)
}

// FirstRemoteNode always returns the first enumerated remote node,
// matching the original task graph mapper's behavior.
type FirstRemoteNode struct{}

func (FirstRemoteNode) Select(remotes []RemoteNode, n *Node) (RemoteNode, error) {
	if len(remotes) == 0 {
		return RemoteNode{}, fmt.Errorf("task: no remote nodes available to map %q onto", n.Name)
	}
	return remotes[0], nil
}

// RoundRobinRemoteNode cycles through the enumerated remote nodes in
// successive calls, spreading remote-capable tasks across all of them
// instead of piling them onto the first.
type RoundRobinRemoteNode struct {
	next int
}

func (r *RoundRobinRemoteNode) Select(remotes []RemoteNode, n *Node) (RemoteNode, error) {
	if len(remotes) == 0 {
		return RemoteNode{}, fmt.Errorf("task: no remote nodes available to map %q onto", n.Name)
	}
	chosen := remotes[r.next%len(remotes)]
	r.next++
	return chosen, nil
}

// ArchGraph enumerates the processing resources a pipeline can be mapped
// onto: zero or more local GPUs and zero or more remote workers. It does
// not enumerate the host CPU explicitly - every task can always run on
// the CPU, so there is nothing to enumerate there.
type ArchGraph struct {
	GPUs     []GpuNode
	Remotes  []RemoteNode
	Selector RemoteNodeSelector
}

// NewArchGraph builds an ArchGraph with n local GPUs, no remote nodes,
// and the default first-fit remote selection policy.
func NewArchGraph(gpuCount int) *ArchGraph {
	gpus := make([]GpuNode, gpuCount)
	for i := range gpus {
		gpus[i] = GpuNode{id: fmt.Sprintf("gpu%d", i)}
	}
	return &ArchGraph{GPUs: gpus, Selector: FirstRemoteNode{}}
}

// AddRemote registers a remote worker reachable at address.
func (a *ArchGraph) AddRemote(address string) RemoteNode {
	n := RemoteNode{id: fmt.Sprintf("remote%d", len(a.Remotes)), Address: address}
	a.Remotes = append(a.Remotes, n)
	return n
}
