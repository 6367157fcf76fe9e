package circuit

// MutationKind names one journaled graph mutation.
type MutationKind string

const (
	MutationAddWire    MutationKind = "add_wire"
	MutationRemoveWire MutationKind = "remove_wire"
	MutationSetSwitch  MutationKind = "set_switch"
	MutationSetSource  MutationKind = "set_source"
	MutationReset      MutationKind = "reset"
)

// ValidMutationKinds enumerates the accepted mutation kinds.
var ValidMutationKinds = map[MutationKind]bool{
	MutationAddWire:    true,
	MutationRemoveWire: true,
	MutationSetSwitch:  true,
	MutationSetSource:  true,
	MutationReset:      true,
}

// Mutation is one journal record: an applied graph mutation with its
// content-addressed identity and logical-clock position. The journal is
// a determinism and debugging record, not session persistence: replay
// rebuilds a fresh engine by feeding these records back through the
// public mutation API.
type Mutation struct {
	ID             string         // content-addressed, see MutationID
	Seq            int64          // logical clock position, strictly increasing
	Kind           MutationKind   //
	Payload        map[string]any // kind-specific fields, canonical-JSON-safe values
	EngineVersion  string         //
	JournalVersion string         //
}

// EvaluationRecord journals the verdict observed at one revision.
// ID is the domain-separated hash of the canonical verdict, so replay
// can verify the rebuilt engine reproduces the session byte-for-byte.
type EvaluationRecord struct {
	ID      string // content-addressed, see EvaluationHash
	Seq     int64  // revision the evaluation was taken at
	Verdict string // canonical JSON of the evaluation
}

// NewAddWireMutation builds the journal record for a successful AddWire.
func NewAddWireMutation(seq int64, wireID WireID, a, b Terminal) (Mutation, error) {
	return newMutation(MutationAddWire, map[string]any{
		"wire_id": string(wireID),
		"a":       a.String(),
		"b":       b.String(),
	}, seq)
}

// NewRemoveWireMutation builds the journal record for a RemoveWire.
func NewRemoveWireMutation(seq int64, wireID WireID) (Mutation, error) {
	return newMutation(MutationRemoveWire, map[string]any{
		"wire_id": string(wireID),
	}, seq)
}

// NewSetSwitchMutation builds the journal record for a SetSwitchState.
func NewSetSwitchMutation(seq int64, id ComponentID, closed bool) (Mutation, error) {
	return newMutation(MutationSetSwitch, map[string]any{
		"switch_id": string(id),
		"closed":    closed,
	}, seq)
}

// NewSetSourceMutation builds the journal record for a SetSourceInstalled.
func NewSetSourceMutation(seq int64, id ComponentID, installed, orientationValid bool) (Mutation, error) {
	return newMutation(MutationSetSource, map[string]any{
		"source_id":         string(id),
		"installed":         installed,
		"orientation_valid": orientationValid,
	}, seq)
}

// NewResetMutation builds the journal record for a Reset.
func NewResetMutation(seq int64) (Mutation, error) {
	return newMutation(MutationReset, map[string]any{}, seq)
}

func newMutation(kind MutationKind, payload map[string]any, seq int64) (Mutation, error) {
	id, err := MutationID(string(kind), payload, seq)
	if err != nil {
		return Mutation{}, err
	}
	return Mutation{
		ID:             id,
		Seq:            seq,
		Kind:           kind,
		Payload:        payload,
		EngineVersion:  EngineVersion,
		JournalVersion: JournalVersion,
	}, nil
}

// NewEvaluationRecord builds the journal record for an Evaluate observed
// at the given revision.
func NewEvaluationRecord(seq int64, eval *Evaluation) (EvaluationRecord, error) {
	verdict, err := MarshalCanonical(eval.CanonicalMap())
	if err != nil {
		return EvaluationRecord{}, err
	}
	id, err := EvaluationHash(eval)
	if err != nil {
		return EvaluationRecord{}, err
	}
	return EvaluationRecord{
		ID:      id,
		Seq:     seq,
		Verdict: string(verdict),
	}, nil
}
