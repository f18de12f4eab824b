package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/agrimech/crm-service/internal/domain"
)

type fakeRegionRepo struct {
	regions   map[string]domain.RegionalZone
	subs      map[string]domain.SubRegional
	showrooms map[string]domain.Showroom
}

func newFakeRegionRepo() *fakeRegionRepo {
	return &fakeRegionRepo{
		regions:   map[string]domain.RegionalZone{},
		subs:      map[string]domain.SubRegional{},
		showrooms: map[string]domain.Showroom{},
	}
}

func (f *fakeRegionRepo) CreateRegion(ctx context.Context, region *domain.RegionalZone) error {
	if region.ID == "" {
		region.ID = fmt.Sprintf("region-%d", len(f.regions)+1)
	}
	f.regions[region.ID] = *region
	return nil
}

func (f *fakeRegionRepo) UpdateRegion(ctx context.Context, region *domain.RegionalZone) error {
	if _, ok := f.regions[region.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.regions[region.ID] = *region
	return nil
}

func (f *fakeRegionRepo) DeleteRegion(ctx context.Context, id string) error {
	if _, ok := f.regions[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.regions, id)
	return nil
}

func (f *fakeRegionRepo) GetRegion(ctx context.Context, id string) (*domain.RegionalZone, error) {
	region, ok := f.regions[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := region
	return &copied, nil
}

func (f *fakeRegionRepo) ListRegions(ctx context.Context) ([]domain.RegionalZone, error) {
	return sortedByID(f.regions), nil
}

func (f *fakeRegionRepo) GetSubRegion(ctx context.Context, id string) (*domain.SubRegional, error) {
	sub, ok := f.subs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := sub
	return &copied, nil
}

func (f *fakeRegionRepo) ListSubRegions(ctx context.Context, regionID string) ([]domain.SubRegional, error) {
	var result []domain.SubRegional
	for _, sub := range sortedByID(f.subs) {
		if regionID == "" || sub.RegionID == regionID {
			result = append(result, sub)
		}
	}
	return result, nil
}

func (f *fakeRegionRepo) GetShowroom(ctx context.Context, id string) (*domain.Showroom, error) {
	showroom, ok := f.showrooms[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := showroom
	return &copied, nil
}

func (f *fakeRegionRepo) ListShowrooms(ctx context.Context, subRegionID string) ([]domain.Showroom, error) {
	var result []domain.Showroom
	for _, showroom := range sortedByID(f.showrooms) {
		if subRegionID == "" || showroom.SubRegionID == subRegionID {
			result = append(result, showroom)
		}
	}
	return result, nil
}

func (f *fakeRegionRepo) UpdateRegionTarget(ctx context.Context, id string, target int64) error {
	region, ok := f.regions[id]
	if !ok {
		return pgx.ErrNoRows
	}
	region.AnnualTarget = target
	f.regions[id] = region
	return nil
}

func (f *fakeRegionRepo) UpdateSubRegionTarget(ctx context.Context, id string, target int64) error {
	sub, ok := f.subs[id]
	if !ok {
		return pgx.ErrNoRows
	}
	sub.AnnualTarget = target
	f.subs[id] = sub
	return nil
}

func (f *fakeRegionRepo) UpdateShowroomTarget(ctx context.Context, id string, target int64) error {
	showroom, ok := f.showrooms[id]
	if !ok {
		return pgx.ErrNoRows
	}
	showroom.AnnualTarget = target
	f.showrooms[id] = showroom
	return nil
}

type territoryNode interface {
	domain.RegionalZone | domain.SubRegional | domain.Showroom
}

func sortedByID[T territoryNode](items map[string]T) []T {
	keys := make([]string, 0, len(items))
	for key := range items {
		keys = append(keys, key)
	}
	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			if keys[j] < keys[i] {
				keys[i], keys[j] = keys[j], keys[i]
			}
		}
	}
	result := make([]T, 0, len(keys))
	for _, key := range keys {
		result = append(result, items[key])
	}
	return result
}

func newTestTargetService(repo *fakeRegionRepo) *TargetService {
	return NewTargetService(testConfig(), TargetDependencies{RegionRepo: repo})
}

func TestProportionalShare(t *testing.T) {
	if got := proportionalShare(500, 300, 1000); got != 150 {
		t.Errorf("proportionalShare(500, 300, 1000) = %d, want 150", got)
	}
	if got := proportionalShare(100, 1, 3); got != 33 {
		t.Errorf("proportionalShare(100, 1, 3) = %d, want 33", got)
	}
	if got := proportionalShare(100, 2, 3); got != 67 {
		t.Errorf("proportionalShare(100, 2, 3) = %d, want 67", got)
	}
	if got := proportionalShare(100, 5, 0); got != 0 {
		t.Errorf("proportionalShare with zero partsTotal = %d, want 0", got)
	}
}

func TestWeightedSplitEqualFallback(t *testing.T) {
	shares := weightedSplit(900, []int64{0, 0, 0})
	for i, share := range shares {
		if share != 300 {
			t.Errorf("share[%d] = %d, want 300", i, share)
		}
	}
}

func TestWeightedSplitByWeight(t *testing.T) {
	shares := weightedSplit(1000, []int64{1, 1, 2})
	want := []int64{250, 250, 500}
	for i := range want {
		if shares[i] != want[i] {
			t.Errorf("share[%d] = %d, want %d", i, shares[i], want[i])
		}
	}
}

func TestWeightedSplitSumStaysClose(t *testing.T) {
	// per-node rounding may drift by at most one unit per node
	total := int64(1000)
	weights := []int64{3, 3, 3}
	shares := weightedSplit(total, weights)
	var sum int64
	for _, share := range shares {
		sum += share
	}
	diff := sum - total
	if diff < 0 {
		diff = -diff
	}
	if diff > int64(len(weights)) {
		t.Errorf("sum = %d, drift %d exceeds node count", sum, diff)
	}
}

// seedHierarchy builds one region (1000) with two sub-regions (300/700),
// where the 300 sub-region holds showrooms at 100/200.
func seedHierarchy(repo *fakeRegionRepo) {
	repo.regions["r1"] = domain.RegionalZone{ID: "r1", Name: "West", AnnualTarget: 1000, CurrentYearAchievement: 400, LastYearRevenue: 900}
	repo.subs["s1"] = domain.SubRegional{ID: "s1", RegionID: "r1", Name: "West-A", AnnualTarget: 300, CurrentYearAchievement: 150, LastYearRevenue: 250}
	repo.subs["s2"] = domain.SubRegional{ID: "s2", RegionID: "r1", Name: "West-B", AnnualTarget: 700, CurrentYearAchievement: 250, LastYearRevenue: 650}
	repo.showrooms["w1"] = domain.Showroom{ID: "w1", SubRegionID: "s1", Name: "Alpha", AnnualTarget: 100, CurrentYearAchievement: 50, IsActive: true}
	repo.showrooms["w2"] = domain.Showroom{ID: "w2", SubRegionID: "s1", Name: "Beta", AnnualTarget: 200, CurrentYearAchievement: 100, IsActive: true}
}

func TestSetRegionTargetCascades(t *testing.T) {
	repo := newFakeRegionRepo()
	seedHierarchy(repo)
	svc := newTestTargetService(repo)

	if _, err := svc.SetRegionTarget(context.Background(), nil, "r1", 500); err != nil {
		t.Fatalf("SetRegionTarget: %v", err)
	}

	if got := repo.regions["r1"].AnnualTarget; got != 500 {
		t.Errorf("region target = %d, want 500", got)
	}
	if got := repo.subs["s1"].AnnualTarget; got != 150 {
		t.Errorf("sub s1 target = %d, want 150", got)
	}
	if got := repo.subs["s2"].AnnualTarget; got != 350 {
		t.Errorf("sub s2 target = %d, want 350", got)
	}
	// showrooms carry the sub-region's halving multiplicatively
	if got := repo.showrooms["w1"].AnnualTarget; got != 50 {
		t.Errorf("showroom w1 target = %d, want 50", got)
	}
	if got := repo.showrooms["w2"].AnnualTarget; got != 100 {
		t.Errorf("showroom w2 target = %d, want 100", got)
	}
}

func TestSetNationalTargetProportional(t *testing.T) {
	repo := newFakeRegionRepo()
	repo.regions["r1"] = domain.RegionalZone{ID: "r1", Name: "West", AnnualTarget: 600}
	repo.regions["r2"] = domain.RegionalZone{ID: "r2", Name: "East", AnnualTarget: 400}
	svc := newTestTargetService(repo)

	if _, err := svc.SetNationalTarget(context.Background(), nil, 2000); err != nil {
		t.Fatalf("SetNationalTarget: %v", err)
	}
	if got := repo.regions["r1"].AnnualTarget; got != 1200 {
		t.Errorf("r1 target = %d, want 1200", got)
	}
	if got := repo.regions["r2"].AnnualTarget; got != 800 {
		t.Errorf("r2 target = %d, want 800", got)
	}
}

func TestSetNationalTargetZeroPriorTotalIsNoOp(t *testing.T) {
	repo := newFakeRegionRepo()
	repo.regions["r1"] = domain.RegionalZone{ID: "r1", Name: "West", AnnualTarget: 0}
	repo.regions["r2"] = domain.RegionalZone{ID: "r2", Name: "East", AnnualTarget: 0}
	svc := newTestTargetService(repo)

	summary, err := svc.SetNationalTarget(context.Background(), nil, 5000)
	if err != nil {
		t.Fatalf("SetNationalTarget: %v", err)
	}
	if summary.NationalTarget != 0 {
		t.Errorf("national = %d, want 0 after no-op", summary.NationalTarget)
	}
	if repo.regions["r1"].AnnualTarget != 0 || repo.regions["r2"].AnnualTarget != 0 {
		t.Error("regions changed despite zero prior total")
	}
}

func TestSetNationalTargetToZeroCollapsesTree(t *testing.T) {
	repo := newFakeRegionRepo()
	seedHierarchy(repo)
	svc := newTestTargetService(repo)

	if _, err := svc.SetNationalTarget(context.Background(), nil, 0); err != nil {
		t.Fatalf("SetNationalTarget: %v", err)
	}
	if repo.regions["r1"].AnnualTarget != 0 {
		t.Error("region not collapsed to zero")
	}
	if repo.subs["s1"].AnnualTarget != 0 || repo.subs["s2"].AnnualTarget != 0 {
		t.Error("sub-regions not collapsed to zero")
	}
	if repo.showrooms["w1"].AnnualTarget != 0 || repo.showrooms["w2"].AnnualTarget != 0 {
		t.Error("showrooms not collapsed to zero")
	}
}

func TestSetNationalTargetRejectsNegative(t *testing.T) {
	svc := newTestTargetService(newFakeRegionRepo())
	if _, err := svc.SetNationalTarget(context.Background(), nil, -1); err == nil {
		t.Error("expected validation error for negative target")
	}
}

func TestDistributeByPerformanceEqualWeights(t *testing.T) {
	repo := newFakeRegionRepo()
	repo.regions["r1"] = domain.RegionalZone{ID: "r1", Name: "A", CurrentYearAchievement: 100}
	repo.regions["r2"] = domain.RegionalZone{ID: "r2", Name: "B", CurrentYearAchievement: 100}
	repo.regions["r3"] = domain.RegionalZone{ID: "r3", Name: "C", CurrentYearAchievement: 100}
	svc := newTestTargetService(repo)

	if _, err := svc.DistributeByPerformance(context.Background(), nil, 1000); err != nil {
		t.Fatalf("DistributeByPerformance: %v", err)
	}

	var sum int64
	for _, id := range []string{"r1", "r2", "r3"} {
		target := repo.regions[id].AnnualTarget
		if target < 333 || target > 334 {
			t.Errorf("%s target = %d, want about 333", id, target)
		}
		sum += target
	}
	diff := sum - 1000
	if diff < 0 {
		diff = -diff
	}
	if diff > 3 {
		t.Errorf("sum = %d, drift beyond one unit per region", sum)
	}
}

func TestDistributeByPerformanceUsesLevelMetrics(t *testing.T) {
	repo := newFakeRegionRepo()
	repo.regions["r1"] = domain.RegionalZone{ID: "r1", Name: "West", CurrentYearAchievement: 100}
	// sub-regions weigh by LAST-year revenue, not current achievement
	repo.subs["s1"] = domain.SubRegional{ID: "s1", RegionID: "r1", Name: "A", CurrentYearAchievement: 999, LastYearRevenue: 100}
	repo.subs["s2"] = domain.SubRegional{ID: "s2", RegionID: "r1", Name: "B", CurrentYearAchievement: 1, LastYearRevenue: 300}
	svc := newTestTargetService(repo)

	if _, err := svc.DistributeByPerformance(context.Background(), nil, 1000); err != nil {
		t.Fatalf("DistributeByPerformance: %v", err)
	}
	if got := repo.subs["s1"].AnnualTarget; got != 250 {
		t.Errorf("s1 target = %d, want 250 (last-year share)", got)
	}
	if got := repo.subs["s2"].AnnualTarget; got != 750 {
		t.Errorf("s2 target = %d, want 750 (last-year share)", got)
	}
}

func TestDistributeByPerformanceRejectsNonPositive(t *testing.T) {
	svc := newTestTargetService(newFakeRegionRepo())
	if _, err := svc.DistributeByPerformance(context.Background(), nil, 0); err == nil {
		t.Error("expected validation error for zero target")
	}
}

func TestAutoBalanceRegionByLastYearRevenue(t *testing.T) {
	repo := newFakeRegionRepo()
	repo.regions["r1"] = domain.RegionalZone{ID: "r1", Name: "West", AnnualTarget: 1000}
	repo.subs["s1"] = domain.SubRegional{ID: "s1", RegionID: "r1", Name: "A", LastYearRevenue: 100}
	repo.subs["s2"] = domain.SubRegional{ID: "s2", RegionID: "r1", Name: "B", LastYearRevenue: 400}
	svc := newTestTargetService(repo)

	if err := svc.AutoBalanceRegion(context.Background(), "r1"); err != nil {
		t.Fatalf("AutoBalanceRegion: %v", err)
	}
	if got := repo.subs["s1"].AnnualTarget; got != 200 {
		t.Errorf("s1 target = %d, want 200", got)
	}
	if got := repo.subs["s2"].AnnualTarget; got != 800 {
		t.Errorf("s2 target = %d, want 800", got)
	}
}

func TestAutoBalanceEqualFallbackOnZeroWeights(t *testing.T) {
	repo := newFakeRegionRepo()
	repo.subs["s1"] = domain.SubRegional{ID: "s1", RegionID: "r1", Name: "A", AnnualTarget: 600}
	repo.showrooms["w1"] = domain.Showroom{ID: "w1", SubRegionID: "s1", Name: "Alpha"}
	repo.showrooms["w2"] = domain.Showroom{ID: "w2", SubRegionID: "s1", Name: "Beta"}
	svc := newTestTargetService(repo)

	if err := svc.AutoBalanceSubRegion(context.Background(), "s1"); err != nil {
		t.Fatalf("AutoBalanceSubRegion: %v", err)
	}
	if repo.showrooms["w1"].AnnualTarget != 300 || repo.showrooms["w2"].AnnualTarget != 300 {
		t.Error("zero weights must fall back to equal split")
	}
}

func TestSummaryFlagsOverAllocation(t *testing.T) {
	repo := newFakeRegionRepo()
	repo.regions["r1"] = domain.RegionalZone{ID: "r1", Name: "West", AnnualTarget: 100}
	repo.subs["s1"] = domain.SubRegional{ID: "s1", RegionID: "r1", Name: "A", AnnualTarget: 80}
	repo.subs["s2"] = domain.SubRegional{ID: "s2", RegionID: "r1", Name: "B", AnnualTarget: 50}
	svc := newTestTargetService(repo)

	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if len(summary.Regions) != 1 {
		t.Fatalf("region count = %d", len(summary.Regions))
	}
	region := summary.Regions[0]
	if region.Allocated != 130 {
		t.Errorf("allocated = %d, want 130", region.Allocated)
	}
	if !region.OverAllocated {
		t.Error("over-allocation not flagged")
	}
	if summary.NationalTarget != 100 {
		t.Errorf("national = %d, want 100", summary.NationalTarget)
	}
}

func TestSetLevelTargetsDirect(t *testing.T) {
	repo := newFakeRegionRepo()
	seedHierarchy(repo)
	svc := newTestTargetService(repo)

	if err := svc.SetSubRegionTarget(context.Background(), "s1", 999); err != nil {
		t.Fatalf("SetSubRegionTarget: %v", err)
	}
	if repo.subs["s1"].AnnualTarget != 999 {
		t.Error("sub-region target not written")
	}
	// direct overrides never cascade
	if repo.showrooms["w1"].AnnualTarget != 100 {
		t.Error("showroom changed by direct sub-region override")
	}

	if err := svc.SetShowroomTarget(context.Background(), "w1", 42); err != nil {
		t.Fatalf("SetShowroomTarget: %v", err)
	}
	if repo.showrooms["w1"].AnnualTarget != 42 {
		t.Error("showroom target not written")
	}

	if err := svc.SetShowroomTarget(context.Background(), "missing", 10); err == nil {
		t.Error("expected not-found for unknown showroom")
	}
}
