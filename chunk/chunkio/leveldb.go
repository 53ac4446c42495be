package chunkio

import (
	"errors"
	"fmt"

	"github.com/df-mc/goleveldb/leveldb"
	"github.com/df-mc/goleveldb/leveldb/opt"

	"github.com/dm-vev/voxelcore/chunk"
)

// LevelDBCodec implements chunk.Codec on top of a single goleveldb
// database, keying each chunk's encoded form by its FileName string,
// grounded directly on the teacher's own LevelDB-backed chunk provider
// (server/world.go's conf.Provider usage backed by a *leveldb.DB).
type LevelDBCodec struct {
	db *leveldb.DB
}

// OpenLevelDBCodec opens (creating if absent) a LevelDB database at dir.
// Snappy block compression is enabled, matching the teacher's provider
// defaults.
func OpenLevelDBCodec(dir string) (*LevelDBCodec, error) {
	db, err := leveldb.OpenFile(dir, &opt.Options{Compression: opt.SnappyCompression})
	if err != nil {
		return nil, fmt.Errorf("chunkio: open leveldb at %s: %w", dir, err)
	}
	return &LevelDBCodec{db: db}, nil
}

// Close releases the underlying database handle.
func (c *LevelDBCodec) Close() error { return c.db.Close() }

func (c *LevelDBCodec) FileName(pos chunk.ChunkPosition) string { return FileName(pos) }

// Load ignores the directory parameter; the codec's key space is the
// database it was opened against, not a filesystem path, demonstrating
// that chunk.Codec's "path" string is storage-agnostic.
func (c *LevelDBCodec) Load(_ string, pos chunk.ChunkPosition) chunk.LoadingResult {
	data, err := c.db.Get([]byte(FileName(pos)), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return chunk.LoadingResult{Outcome: chunk.LoadIOError, Err: chunk.ErrChunkNotFound}
		}
		return chunk.LoadingResult{Outcome: chunk.LoadIOError, Err: err}
	}
	return decode(data, pos)
}

func (c *LevelDBCodec) Save(ck *chunk.Chunk, _ string) error {
	data := encodeWithChecksum(ck)
	if err := c.db.Put([]byte(FileName(ck.Position())), data, nil); err != nil {
		return fmt.Errorf("chunkio: leveldb put %s: %w", FileName(ck.Position()), err)
	}
	return nil
}
