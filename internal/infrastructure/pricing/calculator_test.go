package pricing

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const testPrefix = "ps_"

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func expectBasePrice(mock sqlmock.Sqlmock, productID int64, price, taxRate string) {
	mock.ExpectQuery(`(?s)SELECT.*FROM ps_product p.*LEFT JOIN ps_tax_rule tr.*LEFT JOIN ps_tax t.*WHERE p\.id_product = \$1`).
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows([]string{"price", "tax_rate"}).AddRow(price, taxRate))
}

func expectReduction(mock sqlmock.Sqlmock, rows *sqlmock.Rows) {
	mock.ExpectQuery(`(?s)SELECT.*FROM ps_specific_price sp.*WHERE sp\.id_product = \$1 AND sp\.id_group IN \(\$2,\$3\)`).
		WillReturnRows(rows)
}

func noReduction() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"reduction", "reduction_type"})
}

func TestTaxInclusiveCalculator_Price(t *testing.T) {
	ctx := context.Background()

	t.Run("applies tax rate when including tax", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		calc := NewTaxInclusiveCalculator(db, testPrefix)

		expectBasePrice(mock, 42, "100", "19")
		expectReduction(mock, noReduction())

		price, err := calc.Price(ctx, 42, true, 6, 3)
		require.NoError(t, err)
		assert.Equal(t, "119", price.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns net price when excluding tax", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		calc := NewTaxInclusiveCalculator(db, testPrefix)

		expectBasePrice(mock, 42, "100", "19")
		expectReduction(mock, noReduction())

		price, err := calc.Price(ctx, 42, false, 6, 3)
		require.NoError(t, err)
		assert.Equal(t, "100", price.String())
	})

	t.Run("zero tax rate leaves price unchanged", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		calc := NewTaxInclusiveCalculator(db, testPrefix)

		expectBasePrice(mock, 42, "49.99", "0")
		expectReduction(mock, noReduction())

		price, err := calc.Price(ctx, 42, true, 6, 3)
		require.NoError(t, err)
		assert.Equal(t, "49.99", price.String())
	})

	t.Run("percentage reduction applies to taxed price", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		calc := NewTaxInclusiveCalculator(db, testPrefix)

		expectBasePrice(mock, 42, "100", "19")
		expectReduction(mock, noReduction().AddRow("0.1", "percentage"))

		price, err := calc.Price(ctx, 42, true, 6, 3)
		require.NoError(t, err)
		assert.Equal(t, "107.1", price.String())
	})

	t.Run("amount reduction subtracts from taxed price", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		calc := NewTaxInclusiveCalculator(db, testPrefix)

		expectBasePrice(mock, 42, "100", "19")
		expectReduction(mock, noReduction().AddRow("20", "amount"))

		price, err := calc.Price(ctx, 42, true, 6, 3)
		require.NoError(t, err)
		assert.Equal(t, "99", price.String())
	})

	t.Run("amount reduction never goes below zero", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		calc := NewTaxInclusiveCalculator(db, testPrefix)

		expectBasePrice(mock, 42, "5", "0")
		expectReduction(mock, noReduction().AddRow("20", "amount"))

		price, err := calc.Price(ctx, 42, true, 6, 3)
		require.NoError(t, err)
		assert.Equal(t, "0", price.String())
	})

	t.Run("rounds to the requested precision", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		calc := NewTaxInclusiveCalculator(db, testPrefix)

		expectBasePrice(mock, 42, "9.99", "19")
		expectReduction(mock, noReduction())

		price, err := calc.Price(ctx, 42, true, 2, 3)
		require.NoError(t, err)
		assert.Equal(t, "11.89", price.String())
	})

	t.Run("missing product is an error", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		calc := NewTaxInclusiveCalculator(db, testPrefix)

		mock.ExpectQuery(`(?s)SELECT.*FROM ps_product p`).
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"price", "tax_rate"}))

		_, err := calc.Price(ctx, 42, true, 6, 3)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no price row")
	})

	t.Run("query failure is propagated", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		calc := NewTaxInclusiveCalculator(db, testPrefix)

		mock.ExpectQuery(`(?s)SELECT.*FROM ps_product p`).
			WillReturnError(assert.AnError)

		_, err := calc.Price(ctx, 42, true, 6, 3)
		require.Error(t, err)
	})
}
