package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"prop-vault.backend/internal/domain/entities"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		referral_code TEXT UNIQUE,
		role TEXT NOT NULL DEFAULT 'user',
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createWalletTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE wallets (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		available_balance NUMERIC NOT NULL DEFAULT 0,
		locked_balance NUMERIC NOT NULL DEFAULT 0,
		total_withdrawn NUMERIC NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createEarningTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE referral_earnings (
		id TEXT PRIMARY KEY,
		wallet_id TEXT NOT NULL,
		referrer_id TEXT NOT NULL,
		referred_user_id TEXT NOT NULL,
		registration_id TEXT,
		pass_type TEXT NOT NULL,
		amount NUMERIC NOT NULL,
		status TEXT NOT NULL,
		challenge_passed BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME,
		released_at DATETIME
	);`)
}

func createWithdrawalTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE withdrawal_requests (
		id TEXT PRIMARY KEY,
		wallet_id TEXT NOT NULL,
		amount NUMERIC NOT NULL,
		payment_method TEXT NOT NULL,
		bank_name TEXT,
		account_number TEXT,
		account_name TEXT,
		routing_number TEXT,
		swift_code TEXT,
		crypto_wallet_address TEXT,
		crypto_network TEXT,
		crypto_currency TEXT,
		paypal_email TEXT,
		status TEXT NOT NULL,
		admin_notes TEXT,
		rejection_reason TEXT,
		batch_withdrawal_id TEXT,
		payout_id TEXT,
		external_status TEXT,
		created_at DATETIME,
		processed_at DATETIME
	);`)
}

func createSettingsTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE global_affiliate_settings (
		id TEXT PRIMARY KEY,
		default_commission_rate NUMERIC NOT NULL DEFAULT 0.02,
		minimum_withdrawal_amount NUMERIC NOT NULL DEFAULT 100,
		is_program_enabled BOOLEAN NOT NULL DEFAULT 1,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE affiliate_settings (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		custom_commission_rate NUMERIC,
		is_affiliate_enabled BOOLEAN NOT NULL DEFAULT 1,
		notes TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func seedWallet(t *testing.T, repo *WalletRepository, available int64) *entities.Wallet {
	t.Helper()
	ctx := context.Background()
	wallet, err := repo.GetOrCreate(ctx, uuid.New())
	require.NoError(t, err)
	if available > 0 {
		require.NoError(t, repo.UpdateBalances(ctx, wallet.ID, entities.BalanceDelta{
			Available: decimal.NewFromInt(available),
		}))
		wallet, err = repo.GetByID(ctx, wallet.ID)
		require.NoError(t, err)
	}
	return wallet
}
