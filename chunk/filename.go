package chunk

import "fmt"

// fileName returns the normative on-disk name of the chunk at pos, per
// spec.md §6: x{X}y{Y}z{Z}.chunk. Shared by every Codec implementation so
// a file-backed and a key-value-backed codec agree on naming.
func fileName(pos ChunkPosition) string {
	return fmt.Sprintf("x%dy%dz%d.chunk", pos.X, pos.Y, pos.Z)
}
