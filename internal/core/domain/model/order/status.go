package order

import (
	"fmt"
	"strings"

	"driverapp/internal/pkg/errs"
)

// Status represents the canonical lifecycle state of an order on the driver
// side. It implements a state machine with defined transitions:
//
//	Pending ──> Treatment ──> Progression ──> Completed
//	   │            │              │
//	   └────────────┴──────────────┴──> Rejected (externally driven only)
//
// Raw status strings from the backing store are heterogeneous: legacy and
// current spellings coexist, in two languages. ParseStatus maps every raw
// string onto this enumeration at the read boundary so the rest of the code
// never touches the raw vocabulary.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the pre-state: the order is assigned to the driver but not
	// yet accepted. The driver must explicitly accept before Treatment.
	Pending

	// Treatment means the driver is collecting the order at the store(s).
	Treatment

	// Progression means the driver is en route to the client.
	Progression

	// Completed means the order has been delivered. Terminal.
	Completed

	// Rejected covers cancelled/refused/unavailable. Terminal, reachable
	// from any non-terminal state, never by driver action.
	Rejected
)

// getStatusStrings returns the canonical names for all Status values.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:     "Unknown",
		Pending:     "Pending",
		Treatment:   "Treatment",
		Progression: "Progression",
		Completed:   "Completed",
		Rejected:    "Rejected",
	}
}

// getWireLabels returns the values written back to the order store for each
// canonical status. These match the current (non-legacy) vocabulary.
func getWireLabels() map[Status]string {
	return map[Status]string{
		Pending:     "ASSIGNED",
		Treatment:   "AT_STORE",
		Progression: "DELIVERING",
		Completed:   "COMPLETED",
		Rejected:    "CANCELLED",
	}
}

// getHistoryLabels returns the display labels appended to the status history
// alongside each transition. The history keeps the driver-facing labels.
func getHistoryLabels() map[Status]string {
	return map[Status]string{
		Pending:     "EN ATTENTE",
		Treatment:   "TRAITEMENT",
		Progression: "PROGRESSION",
		Completed:   "LIVRÉE",
		Rejected:    "REJETÉE",
	}
}

// rawStatusIndex maps every known raw spelling (lowercased, trimmed) to its
// canonical status. The vocabulary accumulated organically in the backing
// store; this table is the single place it is acknowledged.
func rawStatusIndex() map[string]Status {
	return map[string]Status{
		// Pending spellings.
		"assigned":   Pending,
		"pending":    Pending,
		"waiting":    Pending,
		"en_attente": Pending,
		"attente":    Pending,
		"nouvelle":   Pending,

		// Treatment spellings.
		"at_store":       Treatment,
		"traitement":     Treatment,
		"accepted":       Treatment,
		"preparation":    Treatment,
		"en_preparation": Treatment,

		// Progression spellings.
		"delivering":  Progression,
		"progression": Progression,
		"picked_up":   Progression,
		"en_route":    Progression,
		"en route":    Progression,
		"en_cours":    Progression,

		// Completed spellings.
		"delivered": Completed,
		"livrée":    Completed,
		"livree":    Completed,
		"livré":     Completed,
		"completed": Completed,
		"complete":  Completed,
		"terminée":  Completed,
		"terminee":  Completed,

		// Rejected spellings.
		"refused":      Rejected,
		"refusée":      Rejected,
		"refusé":       Rejected,
		"refuse":       Rejected,
		"refus":        Rejected,
		"rejected":     Rejected,
		"indisponible": Rejected,
		"indispo":      Rejected,
		"indisponibe":  Rejected,
		"cancelled":    Rejected,
		"canceled":     Rejected,
		"annulée":      Rejected,
		"annulé":       Rejected,
		"annulee":      Rejected,
		"annule":       Rejected,
		"fermé":        Rejected,
		"ferme":        Rejected,
	}
}

// heuristicBuckets are substring markers used when a raw status is not in the
// exact index. Ordered: the first bucket whose marker matches wins.
// Unrecognized strings fall back to Pending, never to an error.
var heuristicBuckets = []struct {
	status  Status
	markers []string
}{
	{Rejected, []string{"refus", "rejet", "reject", "annul", "cancel", "indispo", "ferm"}},
	{Progression, []string{"progress", "picked", "route", "cours"}},
	{Completed, []string{"livr", "deliver", "complet", "termin"}},
	{Treatment, []string{"trait", "store", "prepar"}},
	{Pending, []string{"attent", "assign", "pend", "wait"}},
}

// ParseStatus canonicalizes a raw status string. Matching is case-insensitive
// on the trimmed input: first against the exact vocabulary index, then
// against substring heuristics. It never fails; an unrecognizable string maps
// to Pending so a malformed record stays actionable rather than crashing the
// view.
func ParseStatus(raw string) Status {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return Pending
	}

	if status, ok := rawStatusIndex()[normalized]; ok {
		return status
	}

	for _, bucket := range heuristicBuckets {
		for _, marker := range bucket.markers {
			if strings.Contains(normalized, marker) {
				return bucket.status
			}
		}
	}

	return Pending
}

// Validate checks if the Status value is a member of the enumeration.
// Unknown (0) and out-of-range values are invalid.
func (s Status) Validate() error {
	if s < Pending || s > Rejected {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the canonical name of the status.
// It implements fmt.Stringer and is safe on any value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// WireLabel returns the value persisted to the order store for this status.
func (s Status) WireLabel() string {
	return getWireLabels()[s]
}

// HistoryLabel returns the display label recorded in the status history.
func (s Status) HistoryLabel() string {
	return getHistoryLabels()[s]
}

// IsTerminal reports whether no further driver-initiated transition is
// possible from this status.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Rejected
}

// IsRejectedClass reports whether the status belongs to the externally-driven
// terminal set (cancelled/refused/unavailable).
func (s Status) IsRejectedClass() bool {
	return s == Rejected
}

// IsSuccessTerminal reports whether the status is the delivered-success
// terminal state.
func (s Status) IsSuccessTerminal() bool {
	return s == Completed
}

// Step returns the on-screen step (1..3) for the mission view: 1 while
// collecting at the store, 2 en route, 3 delivered. Pending and anything
// unrecognized map to step 1.
func (s Status) Step() int {
	switch s {
	case Progression:
		return 2
	case Completed:
		return 3
	default:
		return 1
	}
}

// Accept transitions Pending -> Treatment when the driver takes the mission.
func (s Status) Accept() (Status, error) {
	if s != Pending {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to accept", s.String()),
		)
	}
	return Treatment, nil
}

// Depart transitions Treatment -> Progression when the driver leaves the
// store(s) toward the client.
func (s Status) Depart() (Status, error) {
	if s != Treatment {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to depart", s.String()),
		)
	}
	return Progression, nil
}

// Complete transitions Progression -> Completed. The transition is gated by
// the delivery confirmation protocol; callers must not invoke it without a
// confirmed scan.
func (s Status) Complete() (Status, error) {
	if s != Progression {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to complete", s.String()),
		)
	}
	return Completed, nil
}

// Reject transitions any non-terminal status -> Rejected. Only dispatcher or
// store driven events use it; the driver has no reject action.
func (s Status) Reject() (Status, error) {
	if s.IsTerminal() {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is already terminal", s.String()),
		)
	}
	return Rejected, nil
}
