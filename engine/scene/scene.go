package scene

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/spaghettifunk/terra/engine/math"
	"github.com/spaghettifunk/terra/engine/renderer/metadata"
)

var (
	ErrUnknownHandle   = errors.New("unknown scene handle")
	ErrAlreadyAttached = errors.New("geometry already attached")
)

// Handle is a stable reference to a node of the host scene. The zero Handle is
// never issued.
type Handle uuid.UUID

var NilHandle = Handle(uuid.Nil)

func (h Handle) IsNil() bool {
	return h == NilHandle
}

func (h Handle) String() string {
	return uuid.UUID(h).String()
}

// SceneGraph is the capability the terrain needs from the host: reserve a node
// when a chunk is requested, and fill it once the chunk mesh is ready.
type SceneGraph interface {
	AllocatePlaceholder() Handle
	AttachGeometry(handle Handle, mesh *metadata.Mesh, collider *metadata.Collider, transform math.Transform) error
}

// Node is the content of one scene handle.
type Node struct {
	Handle    Handle
	Mesh      *metadata.Mesh
	Collider  *metadata.Collider
	Transform math.Transform
	Attached  bool
}

// Memory is an in-process SceneGraph that keeps every node in a map.
type Memory struct {
	mu    sync.RWMutex
	nodes map[Handle]*Node
}

func NewMemory() *Memory {
	return &Memory{
		nodes: make(map[Handle]*Node),
	}
}

func (m *Memory) AllocatePlaceholder() Handle {
	h := Handle(uuid.New())

	m.mu.Lock()
	defer m.mu.Unlock()
	m.nodes[h] = &Node{Handle: h, Transform: math.TransformCreate()}
	return h
}

func (m *Memory) AttachGeometry(handle Handle, mesh *metadata.Mesh, collider *metadata.Collider, transform math.Transform) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	node, ok := m.nodes[handle]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownHandle, handle)
	}
	if node.Attached {
		return fmt.Errorf("%w: %s", ErrAlreadyAttached, handle)
	}
	node.Mesh = mesh
	node.Collider = collider
	node.Transform = transform
	node.Attached = true
	return nil
}

// Node returns a copy of the node behind handle.
func (m *Memory) Node(handle Handle) (Node, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	node, ok := m.nodes[handle]
	if !ok {
		return Node{}, false
	}
	return *node, true
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.nodes)
}

// AttachedCount is the number of nodes holding geometry.
func (m *Memory) AttachedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, node := range m.nodes {
		if node.Attached {
			n++
		}
	}
	return n
}

// TriangleCount sums the triangles of every attached mesh.
func (m *Memory) TriangleCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, node := range m.nodes {
		if node.Mesh != nil {
			n += node.Mesh.TriangleCount()
		}
	}
	return n
}
