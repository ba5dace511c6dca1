package migrate

import (
	"context"

	"github.com/iksoll/VelvetCake/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MigrateOptions struct {
	CreateExtensions       bool // pgcrypto для gen_random_uuid()
	CreateChecks           bool // CHECK-ограничения целостности
	CreateIndexes          bool // функциональные и составные индексы
	CreateFKsViaSQL        bool // FK с явной политикой ON DELETE
	CreateUpdatedAtTrigger bool // триггер updated_at для orders
	SeedRoles              bool // user / manager / pastry_chef
}

func DefaultMigrateOptions() MigrateOptions {
	return MigrateOptions{
		CreateExtensions:       true,
		CreateChecks:           true,
		CreateIndexes:          true,
		CreateFKsViaSQL:        true,
		CreateUpdatedAtTrigger: true,
		SeedRoles:              true,
	}
}

// step: один идемпотентный SQL-шаг миграции.
type step struct {
	name string
	sql  string
}

var checkSteps = []step{
	{"orders.status", `
ALTER TABLE orders DROP CONSTRAINT IF EXISTS chk_orders_status_allowed;
ALTER TABLE orders ADD CONSTRAINT chk_orders_status_allowed
  CHECK (status IN ('Новый','В работе','Готов','Выдан'));`},
	{"orders.amounts", `
ALTER TABLE orders DROP CONSTRAINT IF EXISTS chk_orders_amounts_non_negative;
ALTER TABLE orders ADD CONSTRAINT chk_orders_amounts_non_negative
  CHECK (total_amount >= 0 AND paid_amount >= 0);`},
	{"order_items.target", `
ALTER TABLE order_items DROP CONSTRAINT IF EXISTS chk_order_items_exactly_one_target;
ALTER TABLE order_items ADD CONSTRAINT chk_order_items_exactly_one_target
  CHECK ((product_id IS NULL) <> (custom_cake_id IS NULL));`},
	{"order_items.quantity", `
ALTER TABLE order_items DROP CONSTRAINT IF EXISTS chk_order_items_quantity_gt_zero;
ALTER TABLE order_items ADD CONSTRAINT chk_order_items_quantity_gt_zero
  CHECK (quantity > 0);`},
	{"order_items.unit_price", `
ALTER TABLE order_items DROP CONSTRAINT IF EXISTS chk_order_items_unit_price_non_negative;
ALTER TABLE order_items ADD CONSTRAINT chk_order_items_unit_price_non_negative
  CHECK (unit_price >= 0);`},
	{"products.price", `
ALTER TABLE products DROP CONSTRAINT IF EXISTS chk_products_price_non_negative;
ALTER TABLE products ADD CONSTRAINT chk_products_price_non_negative
  CHECK (price >= 0);`},
	{"components.type", `
ALTER TABLE components DROP CONSTRAINT IF EXISTS chk_components_type_allowed;
ALTER TABLE components ADD CONSTRAINT chk_components_type_allowed
  CHECK (type IN ('filling','cake_base'));`},
	{"cart_items.quantity", `
ALTER TABLE cart_items DROP CONSTRAINT IF EXISTS chk_cart_items_quantity_gt_zero;
ALTER TABLE cart_items ADD CONSTRAINT chk_cart_items_quantity_gt_zero
  CHECK (quantity > 0);`},
	{"reviews.rating", `
ALTER TABLE reviews DROP CONSTRAINT IF EXISTS chk_reviews_rating_range;
ALTER TABLE reviews ADD CONSTRAINT chk_reviews_rating_range
  CHECK (rating IS NULL OR rating BETWEEN 1 AND 5);`},
}

var indexSteps = []step{
	{"ux_users_email", `CREATE UNIQUE INDEX IF NOT EXISTS ux_users_email ON users (lower(email));`},
	{"ix_orders_user_created", `CREATE INDEX IF NOT EXISTS ix_orders_user_created ON orders (user_id, created_at DESC);`},
	{"ix_notifications_user_sent", `CREATE INDEX IF NOT EXISTS ix_notifications_user_sent ON notifications (user_id, sent_at DESC);`},
	{"ix_products_category_created", `CREATE INDEX IF NOT EXISTS ix_products_category_created ON products (category, created_at);`},
}

// Каталожные строки, на которые ссылаются заказы, удалять нельзя (RESTRICT);
// корзина и уведомления уходят вместе с владельцем или товаром (CASCADE).
var fkSteps = []step{
	{"users.role_id -> roles.id", `
ALTER TABLE users
  DROP CONSTRAINT IF EXISTS fk_users_role,
  ADD CONSTRAINT fk_users_role FOREIGN KEY (role_id) REFERENCES roles(id) ON DELETE RESTRICT;`},
	{"orders.user_id -> users.id", `
ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS fk_orders_user,
  ADD CONSTRAINT fk_orders_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE RESTRICT;`},
	{"order_items.order_id -> orders.id", `
ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS fk_order_items_order,
  ADD CONSTRAINT fk_order_items_order FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE;`},
	{"order_items.product_id -> products.id", `
ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS fk_order_items_product,
  ADD CONSTRAINT fk_order_items_product FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE RESTRICT;`},
	{"order_items.custom_cake_id -> custom_cakes.id", `
ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS fk_order_items_custom_cake,
  ADD CONSTRAINT fk_order_items_custom_cake FOREIGN KEY (custom_cake_id) REFERENCES custom_cakes(id) ON DELETE RESTRICT;`},
	{"custom_cakes.user_id -> users.id", `
ALTER TABLE custom_cakes
  DROP CONSTRAINT IF EXISTS fk_custom_cakes_user,
  ADD CONSTRAINT fk_custom_cakes_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE RESTRICT;`},
	{"custom_cake_components.custom_cake_id -> custom_cakes.id", `
ALTER TABLE custom_cake_components
  DROP CONSTRAINT IF EXISTS fk_ccc_custom_cake,
  ADD CONSTRAINT fk_ccc_custom_cake FOREIGN KEY (custom_cake_id) REFERENCES custom_cakes(id) ON DELETE CASCADE;`},
	{"custom_cake_components.component_id -> components.id", `
ALTER TABLE custom_cake_components
  DROP CONSTRAINT IF EXISTS fk_ccc_component,
  ADD CONSTRAINT fk_ccc_component FOREIGN KEY (component_id) REFERENCES components(id) ON DELETE RESTRICT;`},
	{"cart_items.user_id -> users.id", `
ALTER TABLE cart_items
  DROP CONSTRAINT IF EXISTS fk_cart_items_user,
  ADD CONSTRAINT fk_cart_items_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE;`},
	{"cart_items.product_id -> products.id", `
ALTER TABLE cart_items
  DROP CONSTRAINT IF EXISTS fk_cart_items_product,
  ADD CONSTRAINT fk_cart_items_product FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE;`},
	{"notifications.user_id -> users.id", `
ALTER TABLE notifications
  DROP CONSTRAINT IF EXISTS fk_notifications_user,
  ADD CONSTRAINT fk_notifications_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE;`},
	{"reviews.user_id -> users.id", `
ALTER TABLE reviews
  DROP CONSTRAINT IF EXISTS fk_reviews_user,
  ADD CONSTRAINT fk_reviews_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE;`},
}

// Роли засеиваются один раз; повторный запуск ничего не меняет благодаря ux_roles_name.
const seedRolesSQL = `
INSERT INTO roles (name, description) VALUES
  ('user', 'Покупатель'),
  ('manager', 'Менеджер: каталог, заказы, уведомления'),
  ('pastry_chef', 'Кондитер: просмотр и смена статусов заказов')
ON CONFLICT (name) DO NOTHING;`

func MigrateDB(ctx context.Context, db *gorm.DB, log *zap.Logger, opt MigrateOptions) error {
	log.Info("Начало миграции базы данных VelvetCakes")
	db = db.WithContext(ctx)

	if opt.CreateExtensions {
		log.Info("Создание расширений PostgreSQL")
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
			log.Error("Не удалось включить расширение pgcrypto", zap.Error(err))
			return err
		}
	}

	log.Info("Создание таблиц")
	if err := db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Product{},
		&models.Component{},
		&models.CustomCake{},
		&models.CustomCakeComponent{},
		&models.Order{},
		&models.OrderItem{},
		&models.CartItem{},
		&models.Notification{},
		&models.Review{},
	); err != nil {
		log.Error("Не удалось создать таблицы", zap.Error(err))
		return err
	}
	log.Info("Таблицы успешно созданы")

	if opt.CreateUpdatedAtTrigger {
		log.Info("Создание триггера updated_at для orders")
		if err := db.Exec(`
CREATE OR REPLACE FUNCTION set_updated_at() RETURNS trigger AS $$
BEGIN NEW.updated_at = now(); RETURN NEW; END; $$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS trg_orders_updated ON orders;
CREATE TRIGGER trg_orders_updated
BEFORE UPDATE ON orders
FOR EACH ROW EXECUTE FUNCTION set_updated_at();
`).Error; err != nil {
			log.Error("Не удалось создать триггер updated_at", zap.Error(err))
			return err
		}
	}

	if opt.CreateChecks {
		if err := runSteps(db, log, "CHECK-ограничение", checkSteps); err != nil {
			return err
		}
	}
	if opt.CreateIndexes {
		if err := runSteps(db, log, "индекс", indexSteps); err != nil {
			return err
		}
	}
	if opt.CreateFKsViaSQL {
		if err := runSteps(db, log, "внешний ключ", fkSteps); err != nil {
			return err
		}
	}

	if opt.SeedRoles {
		log.Info("Заполнение справочника ролей")
		if err := db.Exec(seedRolesSQL).Error; err != nil {
			log.Error("Не удалось заполнить роли", zap.Error(err))
			return err
		}
	}

	log.Info("Миграция базы данных успешно завершена")
	return nil
}

func runSteps(db *gorm.DB, log *zap.Logger, kind string, steps []step) error {
	for _, s := range steps {
		if err := db.Exec(s.sql).Error; err != nil {
			log.Error("Не удалось создать "+kind, zap.String("step", s.name), zap.Error(err))
			return err
		}
	}
	log.Info("Шаги миграции выполнены", zap.String("kind", kind), zap.Int("count", len(steps)))
	return nil
}
