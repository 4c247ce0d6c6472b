// Package seed populates a fresh database with the default back-office
// dataset. It runs once, guarded by a setup secret and a config marker.
package seed

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"infoco-backoffice/internal/domain"
	"infoco-backoffice/internal/repository/postgres"
	"infoco-backoffice/internal/security"
)

var (
	ErrUnauthorized  = errors.New("invalid setup secret")
	ErrAlreadySeeded = errors.New("database already seeded")
)

// defaultPassword is the initial password for every seeded user; they are
// expected to change it on first login.
const defaultPassword = "Infoco@2024"

const defaultPermissions = `{
	"admin": {"canViewDashboard": true, "canManageDocuments": true, "canManageFinance": true, "canViewReports": true, "canManageTasks": true, "canManageEmployees": true, "canManageEmail": true, "canManageNotes": true, "canManageHR": true, "canManageInternalExpenses": true, "canManageAssets": true, "canManageUsers": true, "canManageSettings": true},
	"director": {"canViewDashboard": true, "canManageDocuments": false, "canManageFinance": true, "canViewReports": true, "canManageTasks": false, "canManageEmployees": false, "canManageEmail": false, "canManageNotes": false, "canManageHR": false, "canManageInternalExpenses": false, "canManageAssets": false, "canManageUsers": false, "canManageSettings": false},
	"coordinator": {"canViewDashboard": true, "canManageDocuments": true, "canManageFinance": false, "canViewReports": true, "canManageTasks": true, "canManageEmployees": true, "canManageEmail": true, "canManageNotes": true, "canManageHR": true, "canManageInternalExpenses": true, "canManageAssets": true, "canManageUsers": false, "canManageSettings": false},
	"support": {"canViewDashboard": true, "canManageDocuments": false, "canManageFinance": false, "canViewReports": false, "canManageTasks": true, "canManageEmployees": false, "canManageEmail": false, "canManageNotes": true, "canManageHR": false, "canManageInternalExpenses": false, "canManageAssets": false, "canManageUsers": false, "canManageSettings": false}
}`

const defaultNotifications = `[
	{"id": 1, "type": "reminder", "title": "Contrato Próximo do Fim", "description": "O contrato com a \"Cidade Exemplo\" expira em breve.", "date": "2025-12-01T09:00:00Z", "eventDate": "2025-12-31T00:00:00Z", "read": false, "link": "/municipalities"}
]`

// Seeder performs the one-shot database population.
type Seeder struct {
	tx     *postgres.TxManager
	config domain.AppConfigRepository
	secret string
}

func NewSeeder(tx *postgres.TxManager, config domain.AppConfigRepository, secret string) *Seeder {
	return &Seeder{
		tx:     tx,
		config: config,
		secret: secret,
	}
}

// Run seeds the default dataset. It refuses to run twice: the
// app_seeded_v3 config marker is written in the same transaction as the
// data, so a failed seed leaves no marker behind.
func (s *Seeder) Run(ctx context.Context, secret string) error {
	if s.secret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(s.secret)) != 1 {
		return ErrUnauthorized
	}

	if _, err := s.config.Get(ctx, domain.ConfigSeedMarker); err == nil {
		return ErrAlreadySeeded
	} else if !errors.Is(err, domain.ErrConfigKeyNotFound) {
		return fmt.Errorf("failed to check seed marker: %w", err)
	}

	slog.Info("seeding database with default data")

	// Serializable keeps two racing seed requests from both passing the
	// marker check.
	err := s.tx.WithSerializableTx(ctx, func(tx *sql.Tx) error {
		adminID, err := seedProfiles(ctx, tx)
		if err != nil {
			return err
		}
		employeeIDs, err := seedEmployees(ctx, tx)
		if err != nil {
			return err
		}
		municipalityIDs, err := seedMunicipalities(ctx, tx)
		if err != nil {
			return err
		}
		supplierIDs, err := seedSuppliers(ctx, tx)
		if err != nil {
			return err
		}
		if err := seedPosts(ctx, tx, adminID); err != nil {
			return err
		}
		if err := seedWorkRecords(ctx, tx, employeeIDs, municipalityIDs, supplierIDs); err != nil {
			return err
		}
		return seedConfig(ctx, tx)
	})
	if err != nil {
		return fmt.Errorf("seed transaction failed: %w", err)
	}

	slog.Info("database seeded successfully")
	return nil
}

func seedProfiles(ctx context.Context, tx *sql.Tx) (string, error) {
	users := []struct {
		name, email, role, department string
	}{
		{"Admin Geral", "admin@infoco.com.br", domain.RoleAdmin, "Administração"},
		{"Maria Souza", "maria.souza@infoco.com.br", domain.RoleDirector, "Diretoria"},
		{"João Silva", "joao.silva@infoco.com.br", domain.RoleCoordinator, "Operacional"},
		{"Ana Pereira", "ana.pereira@infoco.com.br", domain.RoleSupport, "Suporte"},
	}

	var adminID string
	for _, u := range users {
		hash, err := security.HashPassword(defaultPassword)
		if err != nil {
			return "", fmt.Errorf("failed to hash default password: %w", err)
		}
		var id string
		err = tx.QueryRowContext(ctx, `
			INSERT INTO profiles (email, name, role, department, password_hash)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, u.email, u.name, u.role, u.department, hash).Scan(&id)
		if err != nil {
			return "", fmt.Errorf("failed to seed profile %s: %w", u.email, err)
		}
		if u.role == domain.RoleAdmin {
			adminID = id
		}
	}
	return adminID, nil
}

func seedEmployees(ctx context.Context, tx *sql.Tx) ([]int64, error) {
	employees := []struct {
		name, position, department, email string
		salary                            float64
	}{
		{"Carlos Ferreira", "Desenvolvedor", "Tecnologia", "carlos.f@infoco.com.br", 7500},
		{"Beatriz Lima", "Analista de Suporte", "Suporte", "beatriz.l@infoco.com.br", 4500},
		{"Ricardo Alves", "Gerente de Projetos", "Operacional", "ricardo.a@infoco.com.br", 9500},
	}

	ids := make([]int64, 0, len(employees))
	for _, e := range employees {
		var id int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO employees (name, position, department, email, base_salary)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, e.name, e.position, e.department, e.email, e.salary).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("failed to seed employee %s: %w", e.name, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func seedMunicipalities(ctx context.Context, tx *sql.Tx) ([]int64, error) {
	municipalities := []struct {
		name          string
		paid, pending float64
		contractEnd   string
		coatOfArms    string
	}{
		{"Cidade Exemplo", 150000, 25000, "2025-12-31T00:00:00Z", "https://cdn-icons-png.flaticon.com/512/993/993427.png"},
		{"Vila Teste", 80000, 0, "2026-06-30T00:00:00Z", "https://cdn-icons-png.flaticon.com/512/1/1401.png"},
	}

	ids := make([]int64, 0, len(municipalities))
	for _, m := range municipalities {
		end, _ := time.Parse(time.RFC3339, m.contractEnd)
		var id int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO municipalities (municipality, paid, pending, contract_end_date, coat_of_arms_url)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, m.name, m.paid, m.pending, end, m.coatOfArms).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("failed to seed municipality %s: %w", m.name, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func seedSuppliers(ctx context.Context, tx *sql.Tx) ([]int64, error) {
	suppliers := []struct {
		name, category, contact, email, phone string
	}{
		{"Papelaria Central", "Material de Escritório", "Sr. Roberto", "contato@papelariacentral.com", "11-5555-1234"},
		{"Provedor Web S.A.", "Serviços de TI", "Sra. Lúcia", "lucia@pweb.com", "11-5555-5678"},
	}

	ids := make([]int64, 0, len(suppliers))
	for _, s := range suppliers {
		var id int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO suppliers (name, category, contact_person, email, phone)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, s.name, s.category, s.contact, s.email, s.phone).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("failed to seed supplier %s: %w", s.name, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func seedPosts(ctx context.Context, tx *sql.Tx, adminID string) error {
	posts := []struct {
		content, createdAt string
	}{
		{"Bem-vindo ao novo sistema de gestão Infoco! Explore as funcionalidades e nos dê seu feedback.", "2024-08-01T10:00:00Z"},
		{"O módulo de ZOHO Mail foi integrado. Agora você pode gerenciar seus e-mails diretamente do sistema.", "2024-08-02T14:30:00Z"},
	}

	for _, p := range posts {
		createdAt, _ := time.Parse(time.RFC3339, p.createdAt)
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO update_posts (author_id, content, created_at)
			VALUES ($1, $2, $3)
		`, adminID, p.content, createdAt); err != nil {
			return fmt.Errorf("failed to seed post: %w", err)
		}
	}
	return nil
}

func seedWorkRecords(ctx context.Context, tx *sql.Tx, employeeIDs, municipalityIDs, supplierIDs []int64) error {
	mustDate := func(s string) time.Time {
		t, _ := time.Parse(time.RFC3339, s)
		return t
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO tasks (employee_id, title, description, date, hours, status) VALUES
		($1, 'Desenvolver tela de relatórios', 'Criar a interface para geração de relatórios financeiros.', $2, 16, $3),
		($4, 'Atender chamado #123', 'Resolver problema do cliente com a emissão de notas.', $5, 2, $6)
	`, employeeIDs[0], mustDate("2024-08-10T00:00:00Z"), domain.TaskInProgress,
		employeeIDs[1], mustDate("2024-08-05T00:00:00Z"), domain.TaskDone); err != nil {
		return fmt.Errorf("failed to seed tasks: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO employee_expenses (employee_id, type, description, amount, date, status)
		VALUES ($1, 'Viagem', 'Visita técnica ao cliente em Vila Teste', 350, $2, $3)
	`, employeeIDs[2], mustDate("2024-07-20T00:00:00Z"), domain.PaymentPaid); err != nil {
		return fmt.Errorf("failed to seed employee expenses: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO internal_expenses (description, category, amount, date, supplier_id) VALUES
		('Compra de resmas de papel e canetas', 'Material de Escritório', 250, $1, $2),
		('Pagamento de conta de energia elétrica', 'Contas Fixas', 850, $3, NULL)
	`, mustDate("2024-07-15T00:00:00Z"), supplierIDs[0], mustDate("2024-07-25T00:00:00Z")); err != nil {
		return fmt.Errorf("failed to seed internal expenses: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO assets (name, description, purchase_date, purchase_value, location, status, assigned_to_employee_id, maintenance_log)
		VALUES ('Notebook Dell Inspiron', 'Core i7, 16GB RAM', $1, 6500, 'Escritório', $2, $3, '[]')
	`, mustDate("2023-01-10T00:00:00Z"), domain.AssetInUse, employeeIDs[0]); err != nil {
		return fmt.Errorf("failed to seed assets: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (type, description, amount, due_date, status, municipality_id)
		VALUES ($1, 'Fatura de Julho/2024', 25000, $2, $3, $4)
	`, domain.TransactionReceivable, mustDate("2024-08-10T00:00:00Z"), domain.TransactionPending, municipalityIDs[0]); err != nil {
		return fmt.Errorf("failed to seed transactions: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO payrolls (employee_id, month_year, base_salary, benefits, deductions, net_pay, pay_date)
		VALUES ($1, '2024-07', 7500, 500, 1200, 6800, $2)
	`, employeeIDs[0], mustDate("2024-08-05T00:00:00Z")); err != nil {
		return fmt.Errorf("failed to seed payrolls: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO leave_requests (employee_id, type, start_date, end_date, reason, status)
		VALUES ($1, $2, $3, $4, 'Férias anuais', $5)
	`, employeeIDs[1], domain.LeaveVacation, mustDate("2024-09-01T00:00:00Z"),
		mustDate("2024-09-15T00:00:00Z"), domain.LeavePending); err != nil {
		return fmt.Errorf("failed to seed leave requests: %w", err)
	}

	return nil
}

func seedConfig(ctx context.Context, tx *sql.Tx) error {
	entries := []struct {
		key, value string
	}{
		{domain.ConfigPermissions, defaultPermissions},
		{domain.ConfigNotifications, defaultNotifications},
		{domain.ConfigSeedMarker, `true`},
	}

	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO app_config (key, value)
			VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
		`, e.key, e.value); err != nil {
			return fmt.Errorf("failed to seed config %s: %w", e.key, err)
		}
	}
	return nil
}
