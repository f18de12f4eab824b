package service

import (
	"context"
	"testing"

	"github.com/agrimech/crm-service/internal/config"
	"github.com/agrimech/crm-service/internal/domain"
)

func newTestUserService(repo *fakeUserRepo) *UserService {
	cfg := testConfig()
	cfg.Auth = config.AuthConfig{BcryptCost: 4}
	return NewUserService(cfg, UserDependencies{UserRepo: repo})
}

func TestCreateUserSalesAreaKeepsTarget(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo)

	target := int64(500000)
	user, err := svc.CreateUser(context.Background(), UserCreateInput{
		Name:         "Dewi",
		Email:        "Dewi@Example.com",
		Password:     "longenough",
		Role:         domain.RoleSalesArea,
		AnnualTarget: &target,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.Email != "dewi@example.com" {
		t.Errorf("email = %q, not normalized", user.Email)
	}
	if user.AnnualTarget == nil || *user.AnnualTarget != 500000 {
		t.Error("sales area target dropped")
	}
	if user.AchievedRevenue == nil || *user.AchievedRevenue != 0 {
		t.Error("achieved revenue not initialized to zero")
	}
	if !user.Active {
		t.Error("new user must be active")
	}
}

func TestCreateUserNonSalesDropsTarget(t *testing.T) {
	svc := newTestUserService(newFakeUserRepo())

	target := int64(12345)
	user, err := svc.CreateUser(context.Background(), UserCreateInput{
		Name:         "Rudi",
		Email:        "rudi@example.com",
		Password:     "longenough",
		Role:         domain.RoleMechanic,
		AnnualTarget: &target,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.AnnualTarget != nil {
		t.Error("target must be discarded for non sales-area roles")
	}
}

func TestCreateUserValidation(t *testing.T) {
	repo := newFakeUserRepo(domain.User{ID: "u1", Email: "taken@example.com", Role: domain.RoleMechanic, Active: true})
	svc := newTestUserService(repo)

	if _, err := svc.CreateUser(context.Background(), UserCreateInput{Name: "x", Email: "a@b.c", Password: "short", Role: domain.RoleMechanic}); err == nil {
		t.Error("expected rejection of short password")
	}
	if _, err := svc.CreateUser(context.Background(), UserCreateInput{Name: "x", Email: "a@b.c", Password: "longenough", Role: "JANITOR"}); err == nil {
		t.Error("expected rejection of unknown role")
	}
	if _, err := svc.CreateUser(context.Background(), UserCreateInput{Name: "x", Email: "taken@example.com", Password: "longenough", Role: domain.RoleMechanic}); err == nil {
		t.Error("expected conflict on duplicate email")
	}
}

func TestUpdateUserRoleChangeClearsTarget(t *testing.T) {
	target := int64(1000)
	achieved := int64(400)
	repo := newFakeUserRepo(domain.User{
		ID:              "u1",
		Name:            "Dewi",
		Email:           "dewi@example.com",
		Role:            domain.RoleSalesArea,
		AnnualTarget:    &target,
		AchievedRevenue: &achieved,
		Active:          true,
	})
	svc := newTestUserService(repo)

	role := domain.RoleShowroomManager
	user, err := svc.UpdateUser(context.Background(), "u1", UserPatch{Role: &role})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if user.AnnualTarget != nil || user.AchievedRevenue != nil {
		t.Error("promotion out of sales area must clear target fields")
	}
}

func TestDeactivateUserIdempotent(t *testing.T) {
	repo := newFakeUserRepo(domain.User{ID: "u1", Role: domain.RoleMechanic, Active: true})
	svc := newTestUserService(repo)

	if err := svc.DeactivateUser(context.Background(), "u1"); err != nil {
		t.Fatalf("DeactivateUser: %v", err)
	}
	if repo.users["u1"].Active {
		t.Error("user still active")
	}
	if err := svc.DeactivateUser(context.Background(), "u1"); err != nil {
		t.Errorf("second deactivation errored: %v", err)
	}
}

func TestListMechanicsFiltersRoleAndActive(t *testing.T) {
	repo := newFakeUserRepo(
		domain.User{ID: "m1", Role: domain.RoleMechanic, Active: true},
		domain.User{ID: "m2", Role: domain.RoleMechanic, Active: false},
		domain.User{ID: "s1", Role: domain.RoleSalesArea, Active: true},
	)
	svc := newTestUserService(repo)

	mechanics, err := svc.ListMechanics(context.Background())
	if err != nil {
		t.Fatalf("ListMechanics: %v", err)
	}
	if len(mechanics) != 1 || mechanics[0].ID != "m1" {
		t.Errorf("mechanics = %+v, want only m1", mechanics)
	}
}
