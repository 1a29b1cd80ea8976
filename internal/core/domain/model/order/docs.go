// Package order provides the driver-side order aggregate and its canonical
// status state machine.
//
// The package includes:
//   - Order: the aggregate root owning the authoritative mission status,
//     the append-only status history, and the delivery confirmation token
//   - Status: the canonical lifecycle enumeration with validated transitions
//   - ParseStatus: the boundary normalizer mapping the heterogeneous raw
//     status vocabulary (legacy and current spellings, bilingual labels)
//     onto the enumeration
//
// Key business rules:
//   - the driver lifecycle is Pending -> Treatment -> Progression -> Completed
//   - Rejected is terminal and reachable from any non-terminal state, but
//     only through externally-driven events, never by driver action
//   - the Progression -> Completed transition is gated by the delivery
//     confirmation protocol
//   - the status history is append-only and insertion-ordered
//
// Orders are created upstream and only restored here; the package exposes no
// way to create a new order from scratch.
package order
