package circuit

// EngineVersion identifies the continuity engine build. Recorded on
// journal mutations so old sessions stay attributable after upgrades.
const EngineVersion = "0.1.0"

// JournalVersion identifies the journal record schema.
const JournalVersion = "1"
