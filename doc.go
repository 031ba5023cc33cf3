// Package skillmesh indexes a corpus of skills (short markdown procedures
// with metadata) and answers relevance queries by fusing two retrieval
// signals: semantic embedding similarity and structural metadata-graph
// proximity.
//
// The root package exposes the Engine interface and its Client
// implementation, which wires together the vector index, relationship
// graph, snapshot tracker, hybrid scorer, and recommendation router. The
// individual components live under pkg/.
package skillmesh
