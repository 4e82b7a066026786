package voxel

// Generator fills the padded grid of a chunk with SDF samples.
type Generator interface {
	Generate(chunk *ChunkData)
}

// ChunkStore memoizes chunk grids by coordinate. Chunks are created on first
// request and kept for the lifetime of the store. It is not safe for
// concurrent use; it belongs to the voxel worker.
type ChunkStore struct {
	shape     Shape
	generator Generator
	chunks    map[ChunkCoordinate]*ChunkData
}

func NewChunkStore(shape Shape, generator Generator) *ChunkStore {
	return &ChunkStore{
		shape:     shape,
		generator: generator,
		chunks:    make(map[ChunkCoordinate]*ChunkData),
	}
}

// GetOrCreate returns the chunk at coord, generating it when absent.
func (cs *ChunkStore) GetOrCreate(coord ChunkCoordinate) *ChunkData {
	if chunk, ok := cs.chunks[coord]; ok {
		return chunk
	}
	chunk := NewChunkData(coord, cs.shape)
	cs.generator.Generate(chunk)
	cs.chunks[coord] = chunk
	return chunk
}

func (cs *ChunkStore) Get(coord ChunkCoordinate) (*ChunkData, bool) {
	chunk, ok := cs.chunks[coord]
	return chunk, ok
}

func (cs *ChunkStore) Len() int {
	return len(cs.chunks)
}

func (cs *ChunkStore) Shape() Shape {
	return cs.shape
}
