package neo4j

// Queries used to keep the chunk graph in sync. All writes are MERGE
// based so re-ingesting the same corpus is idempotent.
const (
	upsertDocument = `MERGE (d:Document {doc_id: $doc_id})
SET d.title = $title, d.source_path = $source_path
RETURN d`

	upsertChunk = `MATCH (d:Document {doc_id: $doc_id})
MERGE (c:Chunk {chunk_id: $chunk_id})
SET c.text = $text, c.chunk_index = $chunk_index
MERGE (d)-[:HAS_CHUNK]->(c)
RETURN c`

	linkSequence = `MATCH (c1:Chunk {chunk_id: $current_id})
MATCH (c2:Chunk {chunk_id: $previous_id})
MERGE (c2)-[:NEXT]->(c1)`

	constraintDocID = `CREATE CONSTRAINT doc_id IF NOT EXISTS
FOR (d:Document) REQUIRE d.doc_id IS UNIQUE`

	constraintChunkID = `CREATE CONSTRAINT chunk_id IF NOT EXISTS
FOR (c:Chunk) REQUIRE c.chunk_id IS UNIQUE`
)

// schemaDescription is handed to the cypher-generation prompt. The graph
// shape is fixed by the ingest pipeline, so there is no need to introspect
// the live database.
const schemaDescription = `Node properties:
Document {doc_id: STRING, title: STRING, source_path: STRING}
Chunk {chunk_id: STRING, text: STRING, chunk_index: INTEGER}
Relationships:
(:Document)-[:HAS_CHUNK]->(:Chunk)
(:Chunk)-[:NEXT]->(:Chunk)`
