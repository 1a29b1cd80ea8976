package services

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"driverapp/internal/core/domain/model/cart"
	"driverapp/internal/core/domain/model/kernel"
	"driverapp/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// UnknownStoreGroupName is the sentinel group collecting items that carry no
// store name. Such items are grouped rather than dropped.
const UnknownStoreGroupName = "Unknown Store"

// StoreInfo is the directory record attached to a store group after
// enrichment: coordinates, contact, and average preparation time.
type StoreInfo struct {
	ID             kernel.UUID
	Name           string
	Location       kernel.GeoPoint
	MapsURL        string
	Phone          string
	AvgPrepMinutes int
}

// StoreGroup bundles the items of one order that belong to one store.
type StoreGroup struct {
	// StoreName is the display name as first encountered in the cart.
	StoreName string

	// Key is the normalized grouping key derived from the store name.
	// Grouping by the normalized key instead of the raw display string
	// keeps near-identical spellings ("Pharma Sud" / "pharma sud ") in one
	// group; genuinely different names stay distinct unless the directory
	// resolves them.
	Key string

	// Items are the member items in insertion order.
	Items []cart.Item

	// TotalItems is the member count.
	TotalItems int

	// TotalPrice is Σ price×quantity over Items, missing prices counted
	// as zero.
	TotalPrice decimal.Decimal

	// StoreInfo is the enriched directory record, nil when the lookup
	// found nothing or was not attempted.
	StoreInfo *StoreInfo
}

// Detection is the derived multi-store analysis of one order. It is
// recomputed on every read as a pure function of the cart item list and is
// never persisted.
type Detection struct {
	// IsMultiStore is true when the cart spans more than one distinct store.
	IsMultiStore bool

	// StoreCount is the number of distinct named stores.
	StoreCount int

	// StoreNames lists the distinct store display names in first-seen order.
	StoreNames []string

	// StoreGroups holds one group per store, insertion-ordered.
	StoreGroups []StoreGroup
}

// normalizeStoreKey derives the grouping key from a raw store name.
func normalizeStoreKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Detect partitions a flat cart into per-store groups and flags multi-store
// orders. It is pure and idempotent: calling it twice on an unchanged item
// list yields structurally identical output.
//
// Items without a store name are collected under UnknownStoreGroupName and
// do not count toward the distinct store total.
func Detect(items []cart.Item) Detection {
	if len(items) == 0 {
		return Detection{
			IsMultiStore: false,
			StoreCount:   0,
			StoreNames:   []string{},
			StoreGroups:  []StoreGroup{},
		}
	}

	storeNames := make([]string, 0)
	groups := make([]StoreGroup, 0)
	groupIndex := make(map[string]int)
	seenNames := make(map[string]bool)

	for _, item := range items {
		displayName := strings.TrimSpace(item.StoreName)
		key := normalizeStoreKey(item.StoreName)
		if key == "" {
			displayName = UnknownStoreGroupName
			key = normalizeStoreKey(UnknownStoreGroupName)
		} else if !seenNames[key] {
			seenNames[key] = true
			storeNames = append(storeNames, displayName)
		}

		idx, ok := groupIndex[key]
		if !ok {
			idx = len(groups)
			groupIndex[key] = idx
			groups = append(groups, StoreGroup{
				StoreName:  displayName,
				Key:        key,
				Items:      make([]cart.Item, 0, 1),
				TotalPrice: decimal.Zero,
			})
		}

		groups[idx].Items = append(groups[idx].Items, item)
		groups[idx].TotalItems++
		groups[idx].TotalPrice = groups[idx].TotalPrice.Add(item.LineTotal())
	}

	return Detection{
		IsMultiStore: len(storeNames) > 1,
		StoreCount:   len(storeNames),
		StoreNames:   storeNames,
		StoreGroups:  groups,
	}
}

// StoreDirectory is the external store directory consumed by enrichment.
// Lookup is case-insensitive by name; a missing store returns
// errs.ErrObjectNotFound.
type StoreDirectory interface {
	FindByName(ctx context.Context, name string) (*StoreInfo, error)
}

// MultiStoreDetector runs whole-order multi-store analysis, layering store
// directory enrichment on top of the pure Detect step.
type MultiStoreDetector struct {
	directory StoreDirectory
	logger    *slog.Logger
}

// NewMultiStoreDetector creates a detector backed by the given directory.
func NewMultiStoreDetector(directory StoreDirectory, logger *slog.Logger) *MultiStoreDetector {
	return &MultiStoreDetector{
		directory: directory,
		logger:    logger.With("component", "multistore_detector"),
	}
}

// Enrich attaches directory records (GPS, phone, prep time) to the given
// groups. Lookups run concurrently, one per group. A failed or empty lookup
// leaves the group's StoreInfo nil and is logged; it never fails the batch.
func (d *MultiStoreDetector) Enrich(ctx context.Context, groups []StoreGroup) []StoreGroup {
	enriched := make([]StoreGroup, len(groups))
	copy(enriched, groups)

	var wg sync.WaitGroup
	for i := range enriched {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			info, err := d.directory.FindByName(ctx, enriched[i].StoreName)
			if err != nil {
				d.logger.WarnContext(ctx, "Store lookup failed",
					"store", enriched[i].StoreName, "error", err)
				return
			}
			enriched[i].StoreInfo = info
		}(i)
	}
	wg.Wait()

	return enriched
}

// Analyze runs the complete multi-store analysis of an order: detection over
// the cart payload followed by enrichment.
//
// Legacy fallback: when the order carries no structured cart but does carry
// the single legacy store-name field, Analyze synthesizes a single-group,
// non-multi-store detection around that name.
func (d *MultiStoreDetector) Analyze(ctx context.Context, o *order.Order) Detection {
	items := o.Items()

	if len(items) == 0 && o.StoreName() != "" {
		group := StoreGroup{
			StoreName:  o.StoreName(),
			Key:        normalizeStoreKey(o.StoreName()),
			Items:      []cart.Item{},
			TotalPrice: decimal.Zero,
		}

		return Detection{
			IsMultiStore: false,
			StoreCount:   1,
			StoreNames:   []string{o.StoreName()},
			StoreGroups:  d.Enrich(ctx, []StoreGroup{group}),
		}
	}

	detection := Detect(items)
	detection.StoreGroups = d.Enrich(ctx, detection.StoreGroups)
	return detection
}
