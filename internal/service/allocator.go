package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/guttosm/allocation-service/internal/domain/model"
	"github.com/guttosm/allocation-service/internal/service/cache"
)

var (
	// DefaultPackComposition is the 10-unit pack shape used when the product
	// does not carry XXS.
	DefaultPackComposition = model.SizeVector{
		model.SizeXS: 3,
		model.SizeS:  3,
		model.SizeM:  2,
		model.SizeL:  1,
		model.SizeXL: 1,
	}

	// DefaultPackCompositionXXS is the 11-unit pack shape used when the
	// product was bought or shipped in XXS.
	DefaultPackCompositionXXS = model.SizeVector{
		model.SizeXXS: 1,
		model.SizeXS:  3,
		model.SizeS:   3,
		model.SizeM:   2,
		model.SizeL:   1,
		model.SizeXL:  1,
	}

	// DefaultPackSequence is the 15-slot ratio template determining how many
	// whole packs each store is entitled to. Slot frequency, not slot order,
	// drives the split; truncating the sequence preserves the designed ratio
	// when inventory supports fewer than 15 packs.
	DefaultPackSequence = []string{
		"Cedarhurst", "Lakewood", "Teaneck", "Monsey",
		"Cedarhurst", "Lakewood", "Teaneck", "Warehouse",
		"Cedarhurst", "Lakewood", "Teaneck", "Monsey",
		"Cedarhurst", "Lakewood", "Warehouse",
	}

	// DefaultOfficeCarve is what the office takes off the top before any
	// store allocation, provided every size in it is available.
	DefaultOfficeCarve = model.SizeVector{
		model.SizeXS: 1,
		model.SizeS:  1,
	}

	// DefaultLocations is the canonical six-location deployment.
	DefaultLocations = model.LocationSet{
		{Name: "Cedarhurst", Role: model.RoleStore},
		{Name: "Lakewood", Role: model.RoleStore},
		{Name: "Teaneck", Role: model.RoleStore},
		{Name: "Monsey", Role: model.RoleStore},
		{Name: "Office", Role: model.RoleOffice},
		{Name: "Warehouse", Role: model.RoleSink},
	}
)

// maxSequenceSlots caps how many pack sequence slots one run consumes.
const maxSequenceSlots = 15

// AllocateOptions adjusts a single allocation run.
type AllocateOptions struct {
	// SkipLocations lists store names whose target is forced to zero; their
	// nominal pack share is redirected to the sink instead of being dropped.
	SkipLocations []string
}

// EngineConfig overrides the allocator's configured pack shapes and
// sequence for a single run. Zero-valued fields fall back to the
// allocator's own configuration.
type EngineConfig struct {
	Composition    model.SizeVector
	CompositionXXS model.SizeVector
	PackSequence   []string
	OfficeCarve    model.SizeVector
	OfficeSource   string
}

// Allocator defines the interface for allocation operations.
type Allocator interface {
	Allocate(buy, ship model.SizeVector, locations model.LocationSet, opts AllocateOptions) model.AllocationResult
	AllocateWithConfig(buy, ship model.SizeVector, locations model.LocationSet, opts AllocateOptions, cfg EngineConfig) model.AllocationResult
	// InvalidateCache clears the result cache (useful when the profile changes)
	InvalidateCache()
}

// AllocatorOption configures an AllocatorService.
type AllocatorOption func(*AllocatorService)

// AllocatorService distributes shipped units across locations using a
// ratio-preserving, pack-based procedure. It is a pure function of its
// inputs and configuration: no I/O, no retained state, safe for concurrent
// use across purchase-order lines.
type AllocatorService struct {
	composition    model.SizeVector
	compositionXXS model.SizeVector
	sequence       []string
	officeCarve    model.SizeVector
	officeSource   string
	cache          cache.Cache
}

// NewAllocatorService creates an AllocatorService with the given options.
// Pack shapes and the pack sequence are injected configuration, so ratios
// can change without touching the algorithm.
func NewAllocatorService(opts ...AllocatorOption) *AllocatorService {
	s := &AllocatorService{
		composition:    DefaultPackComposition.Clone(),
		compositionXXS: DefaultPackCompositionXXS.Clone(),
		sequence:       append([]string(nil), DefaultPackSequence...),
		officeCarve:    DefaultOfficeCarve.Clone(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.officeSource == "" {
		s.officeSource = firstStoreIn(s.sequence)
	}
	return s
}

// WithPackCompositions sets the pack shapes used with and without XXS.
func WithPackCompositions(standard, withXXS model.SizeVector) AllocatorOption {
	return func(s *AllocatorService) {
		if len(standard) > 0 {
			s.composition = standard.Clone()
		}
		if len(withXXS) > 0 {
			s.compositionXXS = withXXS.Clone()
		}
	}
}

// WithPackSequence sets the location-slot sequence encoding the pack ratio.
func WithPackSequence(sequence []string) AllocatorOption {
	return func(s *AllocatorService) {
		if len(sequence) > 0 {
			s.sequence = append([]string(nil), sequence...)
		}
	}
}

// WithOfficeCarve sets the vector the office takes before store allocation.
func WithOfficeCarve(carve model.SizeVector) AllocatorOption {
	return func(s *AllocatorService) {
		if len(carve) > 0 {
			s.officeCarve = carve.Clone()
		}
	}
}

// WithOfficeSource names the store whose share the office carve-out is
// debited from. Defaults to the first store in the pack sequence.
func WithOfficeSource(name string) AllocatorOption {
	return func(s *AllocatorService) {
		s.officeSource = name
	}
}

// WithCache enables result caching with the specified capacity and TTL.
// Allocation is deterministic, so identical runs can be served from cache.
func WithCache(capacity int, ttl time.Duration) AllocatorOption {
	return func(s *AllocatorService) {
		if capacity > 0 {
			s.cache = newTTLCache(capacity, ttl)
		}
	}
}

// WithCacheInterface allows injecting a custom cache implementation.
func WithCacheInterface(c cache.Cache) AllocatorOption {
	return func(s *AllocatorService) {
		s.cache = c
	}
}

// Allocate runs the five-stage distribution. Every stage only moves units
// already accounted for; nothing is invented, and only the final cap stage
// removes. Degenerate inputs (zero vectors, missing sizes, missing roles)
// produce a valid zero-or-partial matrix rather than an error.
func (s *AllocatorService) Allocate(buy, ship model.SizeVector, locations model.LocationSet, opts AllocateOptions) model.AllocationResult {
	if len(locations) == 0 {
		return model.EmptyResult(nil)
	}

	buy = buy.Sanitize()
	ship = ship.Sanitize()

	var key string
	if s.cache != nil {
		key = allocationKey(buy, ship, locations, opts)
		if result, ok := s.cache.Get(key); ok {
			return result
		}
	}

	// Stage 1: the pool never promises more than was bought; anything
	// shipped beyond the buy is tracked separately and parked at the sink.
	pool := buy.MinWith(ship)
	overage := ship.SurplusOver(buy)

	// Stage 2: pack shape follows XXS presence in either vector.
	composition := s.composition
	if buy.Get(model.SizeXXS) > 0 || ship.Get(model.SizeXXS) > 0 {
		composition = s.compositionXXS
	}
	packSize := composition.Total()

	// Stage 3: whole packs supported by the pool, split per store by slot
	// frequency over the truncated sequence.
	totalPacks := 0
	if packSize > 0 {
		totalPacks = pool.Total() / packSize
	}
	packCounts := s.packCounts(totalPacks, locations)

	builder := model.NewMatrixBuilder(locations.Names())
	skip := toSet(opts.SkipLocations)

	// Stage 4a: office carve-out, only when every size in it is available.
	office, hasOffice := locations.Office()
	officeTaken := model.SizeVector{}
	if hasOffice && covers(pool, s.officeCarve) {
		officeTaken = s.officeCarve.Clone()
		builder.AddVector(office.Name, officeTaken)
		subtract(pool, officeTaken)
	}

	// Stage 4b/4c: stores in sequence-appearance order, sink last. A skipped
	// store's nominal share moves to the sink rather than being dropped.
	sink, hasSink := locations.Sink()
	order := s.storeOrder(locations)
	if hasSink {
		order = append(order, sink.Name)
	}

	redirected := 0
	for _, name := range order {
		count := packCounts[name]
		if skip[name] && name != sink.Name {
			redirected += count
			continue
		}
		if hasSink && name == sink.Name {
			count += redirected
		}

		for _, size := range model.Sizes {
			target := count * composition.Get(size)
			if name == s.officeSource {
				target -= officeTaken.Get(size)
				if target < 0 {
					target = 0
				}
			}
			actual := target
			if have := pool.Get(size); have < actual {
				actual = have
			}
			if actual > 0 {
				builder.Add(name, size, actual)
				pool.Add(size, -actual)
			}
		}
	}

	// Stage 5: sink absorbs the remaining pool plus the entire overage.
	// Without a sink, the first configured location stands in.
	sinkName := locations[0].Name
	if hasSink {
		sinkName = sink.Name
	}
	builder.AddVector(sinkName, pool)
	builder.AddVector(sinkName, overage)

	// Stage 6: hard cap. Overage routing can overshoot the shipped quantity
	// under buy/ship mismatches; the cap is applied unconditionally rather
	// than reported as an error.
	s.capAtShipped(builder, ship, locations)

	matrix := builder.Build()
	result := model.AllocationResult{
		Allocation: matrix,
		Totals:     matrix.PerSizeTotals(),
		Overage:    overage,
		PackSize:   packSize,
		PackCounts: packCounts,
	}

	if s.cache != nil {
		s.cache.Set(key, result)
	}
	return result
}

// AllocateWithConfig runs one allocation with per-run configuration
// overrides, bypassing the result cache. Used when an allocation profile is
// stored in the database or the request carries its own configuration.
func (s *AllocatorService) AllocateWithConfig(buy, ship model.SizeVector, locations model.LocationSet, opts AllocateOptions, cfg EngineConfig) model.AllocationResult {
	run := &AllocatorService{
		composition:    s.composition,
		compositionXXS: s.compositionXXS,
		sequence:       s.sequence,
		officeCarve:    s.officeCarve,
		officeSource:   s.officeSource,
	}
	if len(cfg.Composition) > 0 {
		run.composition = cfg.Composition
	}
	if len(cfg.CompositionXXS) > 0 {
		run.compositionXXS = cfg.CompositionXXS
	}
	if len(cfg.PackSequence) > 0 {
		run.sequence = cfg.PackSequence
	}
	if len(cfg.OfficeCarve) > 0 {
		run.officeCarve = cfg.OfficeCarve
	}
	if cfg.OfficeSource != "" {
		run.officeSource = cfg.OfficeSource
	} else if len(cfg.PackSequence) > 0 {
		run.officeSource = firstStoreIn(cfg.PackSequence)
	}
	return run.Allocate(buy, ship, locations, opts)
}

// InvalidateCache clears the result cache.
func (s *AllocatorService) InvalidateCache() {
	if s.cache != nil {
		s.cache.Clear()
	}
}

// allocationKey builds a deterministic fingerprint of one run's inputs.
func allocationKey(buy, ship model.SizeVector, locations model.LocationSet, opts AllocateOptions) string {
	var b strings.Builder
	for _, s := range model.Sizes {
		fmt.Fprintf(&b, "%d,%d;", buy.Get(s), ship.Get(s))
	}
	for _, loc := range locations {
		b.WriteString(loc.Name)
		b.WriteByte(':')
		b.WriteString(string(loc.Role))
		b.WriteByte(';')
	}
	skips := append([]string(nil), opts.SkipLocations...)
	sort.Strings(skips)
	b.WriteString(strings.Join(skips, ","))
	return b.String()
}

// packCounts counts how often each present location appears in the first
// min(totalPacks, 15) sequence slots.
func (s *AllocatorService) packCounts(totalPacks int, locations model.LocationSet) map[string]int {
	slots := totalPacks
	if slots > maxSequenceSlots {
		slots = maxSequenceSlots
	}
	if slots > len(s.sequence) {
		slots = len(s.sequence)
	}

	counts := make(map[string]int)
	for _, name := range s.sequence[:slots] {
		if _, ok := locations.ByName(name); ok {
			counts[name]++
		}
	}
	return counts
}

// storeOrder returns the present stores ordered by first appearance in the
// pack sequence, with stores never named in the sequence trailing in
// configured order.
func (s *AllocatorService) storeOrder(locations model.LocationSet) []string {
	seen := make(map[string]bool)
	order := make([]string, 0, len(locations))
	for _, name := range s.sequence {
		loc, ok := locations.ByName(name)
		if !ok || loc.Role != model.RoleStore || seen[name] {
			continue
		}
		seen[name] = true
		order = append(order, name)
	}
	for _, loc := range locations.Stores() {
		if !seen[loc.Name] {
			seen[loc.Name] = true
			order = append(order, loc.Name)
		}
	}
	return order
}

// capAtShipped removes any per-size excess over the shipped quantity,
// deducting from the sink first, then stores in reverse precedence, office
// last, never pushing a cell below zero.
func (s *AllocatorService) capAtShipped(builder *model.MatrixBuilder, ship model.SizeVector, locations model.LocationSet) {
	removal := s.removalOrder(locations)

	for _, size := range model.Sizes {
		excess := builder.ColumnTotal(size) - ship.Get(size)
		if excess <= 0 {
			continue
		}
		for _, name := range removal {
			if excess == 0 {
				break
			}
			have := builder.Get(name, size)
			take := excess
			if have < take {
				take = have
			}
			if take > 0 {
				builder.Add(name, size, -take)
				excess -= take
			}
		}
	}
}

// removalOrder is sink first, stores in reverse sequence precedence, then
// office, then anything else in configured order.
func (s *AllocatorService) removalOrder(locations model.LocationSet) []string {
	order := make([]string, 0, len(locations))
	if sink, ok := locations.Sink(); ok {
		order = append(order, sink.Name)
	}

	stores := s.storeOrder(locations)
	for i := len(stores) - 1; i >= 0; i-- {
		order = append(order, stores[i])
	}

	if office, ok := locations.Office(); ok {
		order = append(order, office.Name)
	}

	listed := toSet(order)
	for _, loc := range locations {
		if !listed[loc.Name] {
			order = append(order, loc.Name)
		}
	}
	return order
}

// covers reports whether pool has at least the quantity need asks for, for
// every size in need.
func covers(pool, need model.SizeVector) bool {
	for size, qty := range need {
		if pool.Get(size) < qty {
			return false
		}
	}
	return true
}

// subtract removes taken from pool in place, clamped at zero.
func subtract(pool, taken model.SizeVector) {
	for size, qty := range taken {
		pool.Add(size, -qty)
	}
}

func firstStoreIn(sequence []string) string {
	if len(sequence) > 0 {
		return sequence[0]
	}
	return ""
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}
