package arena

// Stats is a snapshot of an Arena's chunk usage, useful for diagnostics and
// monitoring. It is computed on demand by walking the chunk list and is not
// cached.
type Stats struct {
	// SizeInUse is the total number of bytes currently allocated across all
	// chunks, including internal fragmentation from alignment padding.
	SizeInUse int
	// Capacity is the total capacity, in bytes, of all chunks.
	Capacity int
	// NumChunks is the number of chunks currently held by the arena.
	NumChunks int
	// Utilization is SizeInUse/Capacity, or 0 if Capacity is 0.
	Utilization float64
}

// Stats returns a snapshot of this arena's chunk usage.
func (a *Arena) Stats() Stats {
	var s Stats

	cur, ok := a.headChunk()
	for ok {
		s.SizeInUse += cur.used()
		s.Capacity += cur.cap()
		s.NumChunks++
		cur, ok = cur.prevChunk()
	}

	if s.Capacity > 0 {
		s.Utilization = float64(s.SizeInUse) / float64(s.Capacity)
	}

	return s
}
