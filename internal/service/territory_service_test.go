package service

import (
	"context"
	"testing"

	"github.com/agrimech/crm-service/internal/domain"
)

func TestCreateRegionStartsWithZeroTarget(t *testing.T) {
	repo := newFakeRegionRepo()
	svc := NewTerritoryService(TerritoryDependencies{RegionRepo: repo})

	region, err := svc.CreateRegion(context.Background(), RegionInput{
		Name:            "  Sulawesi  ",
		LastYearRevenue: 5000,
	})
	if err != nil {
		t.Fatalf("CreateRegion: %v", err)
	}
	if region.Name != "Sulawesi" {
		t.Errorf("name = %q, want trimmed", region.Name)
	}
	if region.AnnualTarget != 0 {
		t.Errorf("annual target = %d, want 0 until distributed", region.AnnualTarget)
	}
	if region.ID == "" {
		t.Error("region ID not assigned")
	}
}

func TestCreateRegionValidation(t *testing.T) {
	svc := NewTerritoryService(TerritoryDependencies{RegionRepo: newFakeRegionRepo()})

	if _, err := svc.CreateRegion(context.Background(), RegionInput{Name: "   "}); err == nil {
		t.Error("expected rejection of blank name")
	}
	if _, err := svc.CreateRegion(context.Background(), RegionInput{Name: "Bali", LastYearRevenue: -1}); err == nil {
		t.Error("expected rejection of negative revenue")
	}
}

func TestUpdateRegionPreservesTarget(t *testing.T) {
	repo := newFakeRegionRepo()
	repo.regions["r1"] = domain.RegionalZone{ID: "r1", Name: "Sumatra", AnnualTarget: 900}
	svc := NewTerritoryService(TerritoryDependencies{RegionRepo: repo})

	region, err := svc.UpdateRegion(context.Background(), "r1", RegionInput{
		Name:                   "Sumatra Utara",
		CurrentYearAchievement: 450,
	})
	if err != nil {
		t.Fatalf("UpdateRegion: %v", err)
	}
	if region.Name != "Sumatra Utara" || region.CurrentYearAchievement != 450 {
		t.Errorf("update not applied: %+v", region)
	}
	if region.AnnualTarget != 900 {
		t.Errorf("annual target = %d, must survive the update", region.AnnualTarget)
	}
}

func TestDeleteRegionNotFound(t *testing.T) {
	repo := newFakeRegionRepo()
	repo.regions["r1"] = domain.RegionalZone{ID: "r1", Name: "Sumatra"}
	svc := NewTerritoryService(TerritoryDependencies{RegionRepo: repo})

	if err := svc.DeleteRegion(context.Background(), "r1"); err != nil {
		t.Fatalf("DeleteRegion: %v", err)
	}
	if err := svc.DeleteRegion(context.Background(), "r1"); err == nil {
		t.Error("expected not-found on second delete")
	}
}

func TestListSubRegionsScopedToRegion(t *testing.T) {
	repo := newFakeRegionRepo()
	seedHierarchy(repo)
	svc := NewTerritoryService(TerritoryDependencies{RegionRepo: repo})

	subs, err := svc.ListSubRegions(context.Background(), "r1")
	if err != nil {
		t.Fatalf("ListSubRegions: %v", err)
	}
	for _, sub := range subs {
		if sub.RegionID != "r1" {
			t.Errorf("sub-region %s belongs to %s", sub.ID, sub.RegionID)
		}
	}
	if _, err := svc.ListSubRegions(context.Background(), "missing"); err == nil {
		t.Error("expected not-found for unknown region")
	}
}
