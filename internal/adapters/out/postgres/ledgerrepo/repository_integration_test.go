package ledgerrepo_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"orderledger/internal/adapters/out/postgres/ledgerrepo"
	"orderledger/internal/adapters/out/postgres/pgtest"
	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/wallet"
	"orderledger/internal/core/ports"
	"orderledger/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

type LedgerRepositoryIntegrationTestSuite struct {
	suite.Suite
	pg      *pgtest.Database
	tracker *MockAggregateTracker
	now     time.Time
}

func (suite *LedgerRepositoryIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background())
	suite.pg = pg
	suite.Require().NoError(err)
}

func (suite *LedgerRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate())

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.now = time.Now().UTC().Truncate(time.Microsecond)
}

func (suite *LedgerRepositoryIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.pg.Terminate(context.Background()))
}

// inTx runs fn against a repository bound to a fresh transaction.
func (suite *LedgerRepositoryIntegrationTestSuite) inTx(fn func(r *ledgerrepo.GormLedgerRepository) error) error {
	return suite.pg.DB.Transaction(func(tx *gorm.DB) error {
		return fn(ledgerrepo.NewGormLedgerRepository(tx, suite.tracker))
	})
}

func (suite *LedgerRepositoryIntegrationTestSuite) post(e *wallet.Entry) error {
	return suite.inTx(func(r *ledgerrepo.GormLedgerRepository) error {
		return r.Post(context.Background(), e)
	})
}

func (suite *LedgerRepositoryIntegrationTestSuite) TestPost_OpensAccountAndUpdatesBalance() {
	accountID := kernel.NewUUID()

	suite.Require().NoError(suite.post(suite.entry(accountID, wallet.TypeAdjustment, 50000, nil, nil)))
	suite.Require().NoError(suite.post(suite.entry(accountID, wallet.TypeWithdrawal, -20000, nil, nil)))

	account, err := ledgerrepo.NewGormLedgerRepository(suite.pg.DB, suite.tracker).GetAccount(context.Background(), accountID)
	suite.Require().NoError(err)
	suite.Equal(wallet.KindSeller, account.Kind())
	suite.Equal(kernel.Money(30000), account.Balance().Available)
	suite.Zero(account.Balance().Pending)
	suite.Equal(int64(2), account.Version())
	suite.assertConserved(accountID)
}

func (suite *LedgerRepositoryIntegrationTestSuite) TestPost_DeferredEarningLandsInPending() {
	accountID := kernel.NewUUID()
	orderID := kernel.NewUUID()
	settles := suite.now.Add(time.Hour)

	suite.Require().NoError(suite.post(suite.entry(accountID, wallet.TypeEarning, 37800, &orderID, &settles)))

	account, err := ledgerrepo.NewGormLedgerRepository(suite.pg.DB, suite.tracker).GetAccount(context.Background(), accountID)
	suite.Require().NoError(err)
	suite.Zero(account.Balance().Available)
	suite.Equal(kernel.Money(37800), account.Balance().Pending)
}

func (suite *LedgerRepositoryIntegrationTestSuite) TestPost_InsufficientFunds_WritesNothing() {
	accountID := kernel.NewUUID()
	suite.Require().NoError(suite.post(suite.entry(accountID, wallet.TypeAdjustment, 50000, nil, nil)))

	err := suite.post(suite.entry(accountID, wallet.TypeWithdrawal, -80000, nil, nil))

	var fundsErr *errs.InsufficientFundsError
	suite.Require().ErrorAs(err, &fundsErr)
	suite.Equal(int64(80000), fundsErr.Requested)
	suite.Equal(int64(50000), fundsErr.Available)

	var entries int64
	suite.Require().NoError(suite.pg.DB.Table("ledger_entries").Count(&entries).Error)
	suite.Equal(int64(1), entries)
	suite.assertConserved(accountID)
}

func (suite *LedgerRepositoryIntegrationTestSuite) TestPost_PlatformAccountMayGoNegative() {
	platformID := kernel.NewUUID()
	orderID := kernel.NewUUID()

	fee, err := wallet.NewEntry(kernel.NewUUID(), wallet.Posting{
		AccountID: platformID, AccountKind: wallet.KindPlatform, OrderID: &orderID,
		Type: wallet.TypeFee, Amount: -45800,
	}, suite.now)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.post(fee))

	account, err := ledgerrepo.NewGormLedgerRepository(suite.pg.DB, suite.tracker).GetAccount(context.Background(), platformID)
	suite.Require().NoError(err)
	suite.Equal(kernel.Money(-45800), account.Balance().Available)
}

func (suite *LedgerRepositoryIntegrationTestSuite) TestPost_DuplicateOrderEntry_IsRejected() {
	accountID := kernel.NewUUID()
	orderID := kernel.NewUUID()
	suite.Require().NoError(suite.post(suite.entry(accountID, wallet.TypeRefund, 1000, &orderID, nil)))

	err := suite.post(suite.entry(accountID, wallet.TypeRefund, 1000, &orderID, nil))

	suite.Require().ErrorIs(err, ports.ErrDuplicateEntry)
	suite.assertConserved(accountID)
}

func (suite *LedgerRepositoryIntegrationTestSuite) TestPost_KindMismatch_IsRejected() {
	accountID := kernel.NewUUID()
	suite.Require().NoError(suite.post(suite.entry(accountID, wallet.TypeAdjustment, 1000, nil, nil)))

	courierEntry, err := wallet.NewEntry(kernel.NewUUID(), wallet.Posting{
		AccountID: accountID, AccountKind: wallet.KindCourier, Type: wallet.TypeAdjustment, Amount: 10,
	}, suite.now)
	suite.Require().NoError(err)

	suite.Require().ErrorIs(suite.post(courierEntry), errs.ErrValueIsInvalid)
}

func (suite *LedgerRepositoryIntegrationTestSuite) TestGetAccount_Unknown_ReturnsNotFound() {
	_, err := ledgerrepo.NewGormLedgerRepository(suite.pg.DB, suite.tracker).GetAccount(context.Background(), kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *LedgerRepositoryIntegrationTestSuite) TestConcurrentPostings_KeepBalanceConserved() {
	accountID := kernel.NewUUID()
	suite.Require().NoError(suite.post(suite.entry(accountID, wallet.TypeAdjustment, 10000, nil, nil)))

	const writers = 20
	var wg sync.WaitGroup
	results := make(chan error, writers)
	for i := 0; i < writers; i++ {
		amount := kernel.Money(1000)
		entryType := wallet.TypeAdjustment
		if i%2 == 1 {
			amount = -1500
			entryType = wallet.TypeWithdrawal
		}
		e := suite.entry(accountID, entryType, amount, nil, nil)
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- suite.post(e)
		}()
	}
	wg.Wait()
	close(results)

	for err := range results {
		if err != nil {
			suite.Require().True(errors.Is(err, errs.ErrInsufficientFunds), "unexpected error: %v", err)
		}
	}

	account, err := ledgerrepo.NewGormLedgerRepository(suite.pg.DB, suite.tracker).GetAccount(context.Background(), accountID)
	suite.Require().NoError(err)
	suite.GreaterOrEqual(account.Balance().Available.Int64(), int64(0))
	suite.assertConserved(accountID)
}

func (suite *LedgerRepositoryIntegrationTestSuite) TestSettleDue_MovesOnlyDueEntriesOfKind() {
	sellerID := kernel.NewUUID()
	courierID := kernel.NewUUID()
	due := suite.now.Add(-time.Minute)
	later := suite.now.Add(time.Hour)
	order1, order2 := kernel.NewUUID(), kernel.NewUUID()

	suite.Require().NoError(suite.post(suite.entry(sellerID, wallet.TypeEarning, 37800, &order1, &due)))
	suite.Require().NoError(suite.post(suite.entry(sellerID, wallet.TypeEarning, 5000, &order2, &later)))
	courierEarning, err := wallet.NewEntry(kernel.NewUUID(), wallet.Posting{
		AccountID: courierID, AccountKind: wallet.KindCourier, OrderID: &order1,
		Type: wallet.TypeEarning, Amount: 8000, SettlesAt: &due,
	}, suite.now)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.post(courierEarning))

	var settlements []wallet.Settlement
	suite.Require().NoError(suite.inTx(func(r *ledgerrepo.GormLedgerRepository) error {
		var err error
		settlements, err = r.SettleDue(context.Background(), wallet.KindSeller, suite.now)
		return err
	}))

	suite.Require().Len(settlements, 1)
	suite.Equal(sellerID, settlements[0].AccountID)
	suite.Equal(kernel.Money(37800), settlements[0].Amount)

	repo := ledgerrepo.NewGormLedgerRepository(suite.pg.DB, suite.tracker)
	seller, err := repo.GetAccount(context.Background(), sellerID)
	suite.Require().NoError(err)
	suite.Equal(kernel.Money(37800), seller.Balance().Available)
	suite.Equal(kernel.Money(5000), seller.Balance().Pending)

	courier, err := repo.GetAccount(context.Background(), courierID)
	suite.Require().NoError(err)
	suite.Equal(kernel.Money(8000), courier.Balance().Pending)

	suite.assertConserved(sellerID)
	suite.assertConserved(courierID)

	// a second sweep finds nothing left to settle
	suite.Require().NoError(suite.inTx(func(r *ledgerrepo.GormLedgerRepository) error {
		var err error
		settlements, err = r.SettleDue(context.Background(), wallet.KindSeller, suite.now)
		return err
	}))
	suite.Empty(settlements)
}

func (suite *LedgerRepositoryIntegrationTestSuite) entry(
	accountID kernel.UUID,
	entryType wallet.EntryType,
	amount kernel.Money,
	orderID *kernel.UUID,
	settlesAt *time.Time,
) *wallet.Entry {
	e, err := wallet.NewEntry(kernel.NewUUID(), wallet.Posting{
		AccountID:   accountID,
		AccountKind: wallet.KindSeller,
		OrderID:     orderID,
		Type:        entryType,
		Amount:      amount,
		SettlesAt:   settlesAt,
	}, suite.now)
	suite.Require().NoError(err)
	return e
}

// assertConserved checks available + pending against the sum of the account's entries.
func (suite *LedgerRepositoryIntegrationTestSuite) assertConserved(accountID kernel.UUID) {
	var row struct {
		Cached int64
		Posted int64
	}
	suite.Require().NoError(suite.pg.DB.Raw(`
		SELECT a.available + a.pending AS cached,
		       COALESCE((SELECT SUM(e.amount) FROM ledger_entries e WHERE e.account_id = a.id), 0) AS posted
		FROM wallet_accounts a WHERE a.id = ?`, accountID.Bytes()).Scan(&row).Error)
	suite.Equal(row.Posted, row.Cached)
}

func TestLedgerRepositoryIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(LedgerRepositoryIntegrationTestSuite))
}
