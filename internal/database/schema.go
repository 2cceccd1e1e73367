package database

const (
	TableMaterials  = "materials"
	TableSuppliers  = "suppliers"
	TableDeliveries = "deliveries"
	TableUsers      = "users"
)

// materials.supplier_id is referential only: removing a supplier leaves its
// materials in place. Deliveries cascade from both parents.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS suppliers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    contact_person TEXT NOT NULL DEFAULT '',
    phone TEXT NOT NULL DEFAULT '',
    email TEXT,
    address TEXT NOT NULL DEFAULT '',
    city TEXT,
    rating INTEGER NOT NULL DEFAULT 5,
    delivery_time_days INTEGER NOT NULL DEFAULT 7,
    payment_terms TEXT,
    notes TEXT,
    is_active BOOLEAN NOT NULL DEFAULT 1,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);`,
	`CREATE TABLE IF NOT EXISTS materials (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    type TEXT NOT NULL DEFAULT '',
    unit TEXT NOT NULL DEFAULT '',
    quantity REAL NOT NULL DEFAULT 0,
    price REAL NOT NULL DEFAULT 0,
    supplier_id INTEGER NOT NULL,
    last_delivery_date DATETIME,
    min_stock_level REAL NOT NULL DEFAULT 0,
    max_stock_level REAL,
    warehouse_location TEXT,
    image_uri TEXT,
    description TEXT,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT 1
);`,
	`CREATE TABLE IF NOT EXISTS deliveries (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    material_id INTEGER NOT NULL,
    supplier_id INTEGER NOT NULL,
    quantity REAL NOT NULL,
    delivery_date DATETIME NOT NULL,
    expected_date DATETIME NOT NULL,
    status TEXT NOT NULL,
    invoice_number TEXT NOT NULL DEFAULT '',
    total_cost REAL NOT NULL DEFAULT 0,
    notes TEXT,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL,
    FOREIGN KEY (material_id) REFERENCES materials(id) ON DELETE CASCADE,
    FOREIGN KEY (supplier_id) REFERENCES suppliers(id) ON DELETE CASCADE
);`,
	`CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL,
    password TEXT NOT NULL,
    role TEXT NOT NULL,
    created_at DATETIME NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT 1
);`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS suppliers (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    contact_person TEXT NOT NULL DEFAULT '',
    phone TEXT NOT NULL DEFAULT '',
    email TEXT,
    address TEXT NOT NULL DEFAULT '',
    city TEXT,
    rating INTEGER NOT NULL DEFAULT 5,
    delivery_time_days INTEGER NOT NULL DEFAULT 7,
    payment_terms TEXT,
    notes TEXT,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);`,
	`CREATE TABLE IF NOT EXISTS materials (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    type TEXT NOT NULL DEFAULT '',
    unit TEXT NOT NULL DEFAULT '',
    quantity DOUBLE PRECISION NOT NULL DEFAULT 0,
    price DOUBLE PRECISION NOT NULL DEFAULT 0,
    supplier_id BIGINT NOT NULL,
    last_delivery_date TIMESTAMPTZ,
    min_stock_level DOUBLE PRECISION NOT NULL DEFAULT 0,
    max_stock_level DOUBLE PRECISION,
    warehouse_location TEXT,
    image_uri TEXT,
    description TEXT,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE
);`,
	`CREATE TABLE IF NOT EXISTS deliveries (
    id BIGSERIAL PRIMARY KEY,
    material_id BIGINT NOT NULL REFERENCES materials(id) ON DELETE CASCADE,
    supplier_id BIGINT NOT NULL REFERENCES suppliers(id) ON DELETE CASCADE,
    quantity DOUBLE PRECISION NOT NULL,
    delivery_date TIMESTAMPTZ NOT NULL,
    expected_date TIMESTAMPTZ NOT NULL,
    status TEXT NOT NULL,
    invoice_number TEXT NOT NULL DEFAULT '',
    total_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
    notes TEXT,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);`,
	`CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    username TEXT NOT NULL,
    password TEXT NOT NULL,
    role TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE
);`,
}

// Index DDL shared by both engines.
var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_materials_name ON materials(name);`,
	`CREATE INDEX IF NOT EXISTS idx_suppliers_name ON suppliers(name);`,
	`CREATE INDEX IF NOT EXISTS idx_deliveries_material_id ON deliveries(material_id);`,
	`CREATE INDEX IF NOT EXISTS idx_deliveries_supplier_id ON deliveries(supplier_id);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users(username);`,
}

func (d Dialect) schema() []string {
	stmts := sqliteSchema
	if d.Driver == DriverPostgres {
		stmts = postgresSchema
	}
	return append(append([]string{}, stmts...), indexes...)
}
