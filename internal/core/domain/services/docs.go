// Package services contains domain services that implement business logic
// spanning multiple aggregates or requiring external collaborators.
//
// The package provides:
//   - Detect and the MultiStoreDetector: partition a flat cart into
//     per-store groups, detect multi-store orders, and enrich groups with
//     store directory data (GPS, phone, prep time)
//   - the route composer: build a multi-waypoint navigation deep link from
//     GPS-enabled store groups and a client destination
//
// Detection is a pure function of the cart item list and is recomputed on
// every read, never persisted. Enrichment is a separate, failure-tolerant
// step: a missing directory entry degrades a group, never the batch.
package services
