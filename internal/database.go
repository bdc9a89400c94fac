package internal

import (
	"fmt"

	"DF-CONTRATOS/internal/config"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB(cfg *config.Config, logger *zap.Logger) error {
	var err error
	DB, err = gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrate(DB, logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("database connected and migrated",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName),
	)
	return nil
}

type tableSpec struct {
	name    string
	create  string
	columns map[string]string // column -> ALTER statement adding it
}

// Tables are created only when missing so existing rows survive restarts.
var tables = []tableSpec{
	{
		name: "contracts",
		create: `
        CREATE TABLE IF NOT EXISTS contracts (
            id varchar(36) PRIMARY KEY,
            nome_escola varchar(255),
            cnpj_escola varchar(32),
            endereco_escola text,
            nome_responsavel varchar(255),
            cpf_responsavel varchar(32),
            rg_responsavel varchar(32),
            endereco_responsavel text,
            nome_aluno varchar(255),
            ano_letivo varchar(8),
            data_inicio varchar(32),
            data_termino varchar(32),
            valor_mensalidade varchar(32),
            dia_vencimento varchar(8),
            percentual_multa varchar(16),
            percentual_juros varchar(16),
            local varchar(255),
            data_assinatura varchar(32),
            created_at datetime(3) NULL,
            updated_at datetime(3) NULL,
            deleted_at datetime(3) NULL,
            INDEX idx_contracts_deleted_at (deleted_at),
            INDEX idx_contracts_created_at (created_at)
        )`,
		columns: map[string]string{
			"local":           "ALTER TABLE contracts ADD COLUMN local varchar(255)",
			"data_assinatura": "ALTER TABLE contracts ADD COLUMN data_assinatura varchar(32)",
		},
	},
	{
		name: "documents",
		create: `
        CREATE TABLE IF NOT EXISTS documents (
            id varchar(36) PRIMARY KEY,
            contract_id varchar(36),
            filename longtext NOT NULL,
            storage_path longtext NOT NULL,
            file_size bigint,
            mime_type longtext,
            page_count int,
            warnings json,
            status varchar(191) DEFAULT 'completed',
            created_at datetime(3) NULL,
            updated_at datetime(3) NULL,
            deleted_at datetime(3) NULL,
            INDEX idx_documents_contract_id (contract_id),
            INDEX idx_documents_deleted_at (deleted_at)
        )`,
		columns: map[string]string{
			"page_count": "ALTER TABLE documents ADD COLUMN page_count int",
			"warnings":   "ALTER TABLE documents ADD COLUMN warnings json",
		},
	},
	{
		name: "activity_logs",
		create: `
        CREATE TABLE IF NOT EXISTS activity_logs (
            id varchar(36) PRIMARY KEY,
            request_id varchar(64),
            method varchar(10) NOT NULL,
            path varchar(255) NOT NULL,
            route varchar(255),
            user_agent text,
            ip_address varchar(45),
            status_code int NOT NULL,
            response_time bigint NOT NULL,
            created_at datetime(3) NULL,
            deleted_at datetime(3) NULL,
            INDEX idx_activity_logs_deleted_at (deleted_at),
            INDEX idx_activity_logs_request_id (request_id),
            INDEX idx_activity_logs_method (method),
            INDEX idx_activity_logs_path (path),
            INDEX idx_activity_logs_created_at (created_at)
        )`,
		columns: map[string]string{
			"request_id": "ALTER TABLE activity_logs ADD COLUMN request_id varchar(64)",
			"route":      "ALTER TABLE activity_logs ADD COLUMN route varchar(255)",
		},
	},
}

func migrate(db *gorm.DB, logger *zap.Logger) error {
	for _, table := range tables {
		logger.Debug("ensuring table exists", zap.String("table", table.name))
		if err := db.Exec(table.create).Error; err != nil {
			return fmt.Errorf("failed to create %s table: %w", table.name, err)
		}
		for column, stmt := range table.columns {
			if err := ensureColumn(db, logger, table.name, column, stmt); err != nil {
				return err
			}
		}
	}
	return nil
}

func ensureColumn(db *gorm.DB, logger *zap.Logger, table, column, statement string) error {
	if db.Migrator().HasColumn(table, column) {
		return nil
	}

	logger.Info("adding missing column", zap.String("table", table), zap.String("column", column))
	if err := db.Exec(statement).Error; err != nil {
		return fmt.Errorf("failed to add column %s.%s: %w", table, column, err)
	}
	return nil
}

func CloseDB() error {
	if DB != nil {
		sqlDB, err := DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
