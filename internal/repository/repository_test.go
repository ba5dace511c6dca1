package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iksoll/VelvetCake/internal/migrate"
	"github.com/iksoll/VelvetCake/internal/models"
	"github.com/iksoll/VelvetCake/internal/repository"
	"github.com/iksoll/VelvetCake/pkg/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := testutil.SetupTestPostgres(t)
	if err := migrate.MigrateDB(context.Background(), db, zap.NewNop(), migrate.DefaultMigrateOptions()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createUser(t *testing.T, repo *repository.Repository, email string) *models.User {
	t.Helper()
	ctx := context.Background()
	role, err := repo.Roles.GetByName(ctx, models.RoleUser)
	if err != nil || role == nil {
		t.Fatalf("GetByName(user): %v %v", role, err)
	}
	u := &models.User{Email: email, PasswordHash: "hash", FullName: "Тест", RoleID: role.ID}
	if err := repo.Users.Create(ctx, u); err != nil {
		t.Fatalf("Users.Create: %v", err)
	}
	return u
}

func createProduct(t *testing.T, repo *repository.Repository, category string, price int64) *models.Product {
	t.Helper()
	p := &models.Product{Name: "Чизкейк", Price: decimal.NewFromInt(price), Category: category}
	if err := repo.Products.Create(context.Background(), p); err != nil {
		t.Fatalf("Products.Create: %v", err)
	}
	return p
}

func TestMigrate_SeedsRolesIdempotently(t *testing.T) {
	db := setupDB(t)
	// повторный прогон не должен падать и дублировать роли
	if err := migrate.MigrateDB(context.Background(), db, zap.NewNop(), migrate.DefaultMigrateOptions()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	roles, err := repository.NewRoleRepo(db).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(roles) != 3 {
		t.Fatalf("roles = %d, want 3", len(roles))
	}
	want := map[string]bool{models.RoleUser: true, models.RoleManager: true, models.RolePastryChef: true}
	for _, r := range roles {
		if !want[r.Name] {
			t.Errorf("unexpected role %q", r.Name)
		}
	}
}

func TestUserRepo_EmailCaseInsensitive(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	ctx := context.Background()

	u := createUser(t, repo, "Anna@Cakes.ru")

	got, err := repo.Users.GetByEmail(ctx, "anna@cakes.ru")
	if err != nil || got == nil || got.ID != u.ID {
		t.Fatalf("GetByEmail: %v %v", got, err)
	}
	if got.RoleName() != models.RoleUser {
		t.Errorf("role not preloaded: %q", got.RoleName())
	}

	exists, err := repo.Users.ExistsByEmail(ctx, "ANNA@cakes.ru")
	if err != nil || !exists {
		t.Fatalf("ExistsByEmail: %v %v", exists, err)
	}

	dup := &models.User{Email: "anna@cakes.ru", PasswordHash: "h", FullName: "X", RoleID: u.RoleID}
	if err := repo.Users.Create(ctx, dup); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("duplicate email: err = %v, want ErrDuplicate", err)
	}

	missing, err := repo.Users.GetByEmail(ctx, "ghost@cakes.ru")
	if err != nil || missing != nil {
		t.Fatalf("missing user: %v %v", missing, err)
	}
}

func TestOrderRepo_TxAndStatus(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	ctx := context.Background()

	u := createUser(t, repo, "buyer@cakes.ru")
	p := createProduct(t, repo, "cheesecakes", 1500)
	now := time.Now().UTC().Truncate(time.Second)

	var orderID uuid.UUID
	err := repo.Orders.WithTx(ctx, func(tx repository.OrderTx) error {
		o := &models.Order{
			Number:      "TEST0001",
			UserID:      u.ID,
			Status:      models.OrderStatusNew,
			TotalAmount: decimal.NewFromInt(4000),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.Orders.Create(ctx, o); err != nil {
			return err
		}
		orderID = o.ID

		cake := &models.CustomCake{UserID: u.ID, Name: "Торт", Weight: decimal.NewFromInt(1), TotalPrice: decimal.NewFromInt(1000), CreatedAt: now}
		if err := tx.CustomCakes.Create(ctx, cake); err != nil {
			return err
		}
		pid, cid := p.ID, cake.ID
		if err := tx.Items.BulkCreate(ctx, []models.OrderItem{
			{OrderID: o.ID, ProductID: &pid, Quantity: 2, UnitPrice: p.Price},
			{OrderID: o.ID, CustomCakeID: &cid, Quantity: 1, UnitPrice: cake.TotalPrice},
		}); err != nil {
			return err
		}
		return tx.Notifications.Create(ctx, &models.Notification{UserID: u.ID, Title: "t", Text: "x", SentAt: now})
	})
	if err != nil {
		t.Fatalf("WithTx: %v", err)
	}

	got, err := repo.Orders.GetByID(ctx, orderID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: %v %v", got, err)
	}
	if len(got.Items) != 2 {
		t.Fatalf("items = %d", len(got.Items))
	}
	for _, it := range got.Items {
		if it.ProductID != nil && it.Product == nil {
			t.Error("product not preloaded")
		}
		if it.CustomCakeID != nil && it.CustomCake == nil {
			t.Error("custom cake not preloaded")
		}
	}

	err = repo.Orders.WithTx(ctx, func(tx repository.OrderTx) error {
		locked, err := tx.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if locked == nil || locked.Status != models.OrderStatusNew {
			t.Fatalf("GetForUpdate = %+v", locked)
		}
		missing, err := tx.Orders.GetForUpdate(ctx, uuid.New())
		if err != nil || missing != nil {
			t.Fatalf("GetForUpdate(missing) = %v %v", missing, err)
		}
		return tx.Orders.UpdateStatus(ctx, orderID, models.OrderStatusReady, now.Add(time.Hour))
	})
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	got, _ = repo.Orders.GetByID(ctx, orderID)
	if got.Status != models.OrderStatusReady {
		t.Errorf("status = %q", got.Status)
	}

	mine, err := repo.Orders.ListByUser(ctx, u.ID)
	if err != nil || len(mine) != 1 {
		t.Fatalf("ListByUser: %d %v", len(mine), err)
	}

	notes, err := repo.Notifications.ListByUser(ctx, u.ID)
	if err != nil || len(notes) != 1 {
		t.Fatalf("notifications: %d %v", len(notes), err)
	}
}

func TestOrderRepo_TxRollback(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	ctx := context.Background()
	u := createUser(t, repo, "rb@cakes.ru")

	boom := errors.New("boom")
	err := repo.Orders.WithTx(ctx, func(tx repository.OrderTx) error {
		o := &models.Order{Number: "ROLLBACK", UserID: u.ID, Status: models.OrderStatusNew, TotalAmount: decimal.NewFromInt(1)}
		if err := tx.Orders.Create(ctx, o); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx err = %v", err)
	}

	list, err := repo.Orders.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("rolled back order persisted: %d", len(list))
	}
}

func TestOrderRepo_DuplicateNumber(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	ctx := context.Background()
	u := createUser(t, repo, "dup@cakes.ru")

	first := &models.Order{Number: "SAME0001", UserID: u.ID, Status: models.OrderStatusNew, TotalAmount: decimal.NewFromInt(1)}
	if err := repo.Orders.Create(ctx, first); err != nil {
		t.Fatalf("Create: %v", err)
	}
	second := &models.Order{Number: "SAME0001", UserID: u.ID, Status: models.OrderStatusNew, TotalAmount: decimal.NewFromInt(1)}
	if err := repo.Orders.Create(ctx, second); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
}

func TestProductRepo_ReferencedCannotBeDeleted(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	ctx := context.Background()
	u := createUser(t, repo, "ref@cakes.ru")
	used := createProduct(t, repo, "cakes", 900)
	free := createProduct(t, repo, "cakes", 500)

	o := &models.Order{Number: "REF00001", UserID: u.ID, Status: models.OrderStatusNew, TotalAmount: decimal.NewFromInt(900)}
	if err := repo.Orders.Create(ctx, o); err != nil {
		t.Fatalf("Create order: %v", err)
	}
	pid := used.ID
	if err := repo.OrderItems.BulkCreate(ctx, []models.OrderItem{{OrderID: o.ID, ProductID: &pid, Quantity: 1, UnitPrice: used.Price}}); err != nil {
		t.Fatalf("BulkCreate: %v", err)
	}

	ref, err := repo.Products.IsReferenced(ctx, used.ID)
	if err != nil || !ref {
		t.Fatalf("IsReferenced(used) = %v %v", ref, err)
	}
	ref, err = repo.Products.IsReferenced(ctx, free.ID)
	if err != nil || ref {
		t.Fatalf("IsReferenced(free) = %v %v", ref, err)
	}

	// FK RESTRICT страхует и в обход сервиса
	if _, err := repo.Products.Delete(ctx, used.ID); !errors.Is(err, repository.ErrReferenced) {
		t.Fatalf("delete of referenced product: err = %v, want ErrReferenced", err)
	}
	ok, err := repo.Products.Delete(ctx, free.ID)
	if err != nil || !ok {
		t.Fatalf("Delete(free) = %v %v", ok, err)
	}

	list, err := repo.Products.ListByCategory(ctx, "cakes")
	if err != nil || len(list) != 1 || list[0].ID != used.ID {
		t.Fatalf("ListByCategory: %v %v", list, err)
	}
}

func TestCartRepo_UpsertAndCleanup(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	ctx := context.Background()
	u := createUser(t, repo, "cart@cakes.ru")
	p := createProduct(t, repo, "cheesecakes", 450)

	old := time.Now().Add(-48 * time.Hour)
	if err := repo.Cart.AddOrIncrement(ctx, &models.CartItem{UserID: u.ID, ProductID: p.ID, Quantity: 1, AddedAt: old}); err != nil {
		t.Fatalf("AddOrIncrement: %v", err)
	}
	if err := repo.Cart.AddOrIncrement(ctx, &models.CartItem{UserID: u.ID, ProductID: p.ID, Quantity: 2, AddedAt: old}); err != nil {
		t.Fatalf("AddOrIncrement: %v", err)
	}

	items, err := repo.Cart.ListByUser(ctx, u.ID)
	if err != nil || len(items) != 1 {
		t.Fatalf("ListByUser: %d %v", len(items), err)
	}
	if items[0].Quantity != 3 || items[0].Product == nil {
		t.Fatalf("item = %+v", items[0])
	}

	ok, err := repo.Cart.SetQuantity(ctx, u.ID, uuid.New(), 5, time.Now())
	if err != nil || ok {
		t.Fatalf("SetQuantity(missing) = %v %v", ok, err)
	}

	ok, err = repo.Cart.SetQuantity(ctx, u.ID, p.ID, 4, time.Now())
	if err != nil || !ok {
		t.Fatalf("SetQuantity = %v %v", ok, err)
	}
	// правка количества сдвигает added_at, позиция больше не устаревшая
	n, err := repo.Cart.DeleteOlderThan(ctx, time.Now().Add(-24*time.Hour))
	if err != nil || n != 0 {
		t.Fatalf("DeleteOlderThan after edit = %d %v", n, err)
	}

	n, err = repo.Cart.DeleteOlderThan(ctx, time.Now().Add(time.Minute))
	if err != nil || n != 1 {
		t.Fatalf("DeleteOlderThan = %d %v", n, err)
	}
	items, _ = repo.Cart.ListByUser(ctx, u.ID)
	if len(items) != 0 {
		t.Fatalf("stale cart left: %d", len(items))
	}
}

func TestNotificationRepo_MarkReadOwnOnly(t *testing.T) {
	db := setupDB(t)
	repo := repository.New(db)
	ctx := context.Background()
	owner := createUser(t, repo, "owner@cakes.ru")
	other := createUser(t, repo, "other@cakes.ru")

	n := &models.Notification{UserID: owner.ID, Title: "t", Text: "x", SentAt: time.Now()}
	if err := repo.Notifications.Create(ctx, n); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if ok, err := repo.Notifications.MarkRead(ctx, n.ID, other.ID); err != nil || ok {
		t.Fatalf("MarkRead(other) = %v %v", ok, err)
	}
	if ok, err := repo.Notifications.MarkRead(ctx, n.ID, owner.ID); err != nil || !ok {
		t.Fatalf("MarkRead(owner) = %v %v", ok, err)
	}

	cnt, err := repo.Notifications.DeleteByUser(ctx, owner.ID)
	if err != nil || cnt != 1 {
		t.Fatalf("DeleteByUser = %d %v", cnt, err)
	}
}
