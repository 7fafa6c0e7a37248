package commands_test

import (
	"testing"
	"time"

	"orderledger/internal/core/application/usecases/commands"
	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/wallet"
	"orderledger/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func account(t *testing.T, id kernel.UUID, kind wallet.AccountKind, available, pending kernel.Money) *wallet.Account {
	t.Helper()
	a, err := wallet.RestoreAccount(id, kind, available, pending, 3, time.Now())
	require.NoError(t, err)
	return a
}

func TestNewPostLedgerAdjustmentCommand(t *testing.T) {
	accountID := kernel.NewUUID()

	topup, err := commands.NewPostLedgerAdjustmentCommand(commands.AdjustmentInput{
		AccountID: accountID, Direction: commands.Credit, Amount: 5000,
	})
	require.NoError(t, err)
	assert.Equal(t, kernel.Money(5000), topup.Amount())
	assert.Equal(t, wallet.TypeAdjustment, topup.EntryType())

	deduct, err := commands.NewPostLedgerAdjustmentCommand(commands.AdjustmentInput{
		AccountID: accountID, AccountKind: "seller", Direction: commands.Debit, Amount: 700, Type: "fee",
	})
	require.NoError(t, err)
	assert.Equal(t, kernel.Money(-700), deduct.Amount())
	assert.Equal(t, wallet.KindSeller, deduct.AccountKind())

	_, err = commands.NewPostLedgerAdjustmentCommand(commands.AdjustmentInput{
		AccountID: accountID, Direction: commands.Credit, Amount: 0,
	})
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = commands.NewPostLedgerAdjustmentCommand(commands.AdjustmentInput{
		AccountID: accountID, Direction: commands.Credit, Amount: 10, Type: "earning",
	})
	require.ErrorIs(t, err, errs.ErrValueIsInvalid, "earnings only come from completions")

	_, err = commands.NewPostLedgerAdjustmentCommand(commands.AdjustmentInput{
		AccountID: accountID, Direction: "sideways", Amount: 10,
	})
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestPostLedgerAdjustmentCommandHandler_Handle_TopUpExistingAccount(t *testing.T) {
	ctx := t.Context()
	accountID := kernel.NewUUID()
	cmd, err := commands.NewPostLedgerAdjustmentCommand(commands.AdjustmentInput{
		AccountID: accountID, Direction: commands.Credit, Amount: 50000, Description: "promo",
	})
	require.NoError(t, err)

	ledger := new(MockLedgerRepository)
	uow := new(MockUoW)
	notifier := new(MockNotifier)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("LedgerRepository").Return(ledger).Once(),
		ledger.On("GetAccount", ctx, accountID).Return(account(t, accountID, wallet.KindCourier, 0, 0), nil).Once(),
		ledger.On("Post", ctx, mock.MatchedBy(func(e *wallet.Entry) bool {
			return e.AccountKind() == wallet.KindCourier && e.Amount() == 50000 && !e.IsDeferred()
		})).Return(nil).Once(),
		ledger.On("GetAccount", ctx, accountID).Return(account(t, accountID, wallet.KindCourier, 50000, 0), nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	notifier.On("LedgerAdjusted", ctx, mock.AnythingOfType("*wallet.Entry")).Once()

	balance, err := commands.NewPostLedgerAdjustmentCommandHandler(MockLedgerUoWFactory{uow}, notifier).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, kernel.Money(50000), balance.Available)
	ledger.AssertExpectations(t)
	uow.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestPostLedgerAdjustmentCommandHandler_Handle_NewAccountNeedsKind(t *testing.T) {
	ctx := t.Context()
	accountID := kernel.NewUUID()
	cmd, err := commands.NewPostLedgerAdjustmentCommand(commands.AdjustmentInput{
		AccountID: accountID, Direction: commands.Credit, Amount: 1000,
	})
	require.NoError(t, err)

	ledger := new(MockLedgerRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("LedgerRepository").Return(ledger)
	ledger.On("GetAccount", ctx, accountID).Return(nil, errs.NewObjectNotFoundError("wallet account", accountID.String()))
	uow.On("Rollback", ctx).Return(nil)

	_, err = commands.NewPostLedgerAdjustmentCommandHandler(MockLedgerUoWFactory{uow}, new(MockNotifier)).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	ledger.AssertNotCalled(t, "Post", mock.Anything, mock.Anything)
}

func TestPostLedgerAdjustmentCommandHandler_Handle_DeductBeyondAvailable(t *testing.T) {
	ctx := t.Context()
	accountID := kernel.NewUUID()
	cmd, err := commands.NewPostLedgerAdjustmentCommand(commands.AdjustmentInput{
		AccountID: accountID, Direction: commands.Debit, Amount: 80000,
	})
	require.NoError(t, err)

	ledger := new(MockLedgerRepository)
	uow := new(MockUoW)
	notifier := new(MockNotifier)
	uow.On("Begin", ctx).Return(nil)
	uow.On("LedgerRepository").Return(ledger)
	ledger.On("GetAccount", ctx, accountID).Return(account(t, accountID, wallet.KindSeller, 50000, 0), nil)
	ledger.On("Post", ctx, mock.Anything).Return(errs.NewInsufficientFundsError(accountID.String(), 80000, 50000))
	uow.On("Rollback", ctx).Return(nil)

	_, err = commands.NewPostLedgerAdjustmentCommandHandler(MockLedgerUoWFactory{uow}, notifier).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrInsufficientFunds)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	notifier.AssertNotCalled(t, "LedgerAdjusted", mock.Anything, mock.Anything)
}

func TestRequestWithdrawalCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	accountID := kernel.NewUUID()
	cmd, err := commands.NewRequestWithdrawalCommand(accountID, 20000)
	require.NoError(t, err)

	ledger := new(MockLedgerRepository)
	uow := new(MockUoW)
	notifier := new(MockNotifier)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("LedgerRepository").Return(ledger).Once(),
		ledger.On("GetAccount", ctx, accountID).Return(account(t, accountID, wallet.KindSeller, 50000, 37800), nil).Once(),
		ledger.On("Post", ctx, mock.MatchedBy(func(e *wallet.Entry) bool {
			return e.Type() == wallet.TypeWithdrawal && e.Amount() == -20000 && e.AccountKind() == wallet.KindSeller
		})).Return(nil).Once(),
		ledger.On("GetAccount", ctx, accountID).Return(account(t, accountID, wallet.KindSeller, 30000, 37800), nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	notifier.On("LedgerAdjusted", ctx, mock.Anything).Once()

	balance, err := commands.NewRequestWithdrawalCommandHandler(MockLedgerUoWFactory{uow}, notifier).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, kernel.Money(30000), balance.Available)
	assert.Equal(t, kernel.Money(37800), balance.Pending)
	uow.AssertExpectations(t)
}

func TestRequestWithdrawalCommandHandler_Handle_UnknownAccountHasNoFunds(t *testing.T) {
	ctx := t.Context()
	accountID := kernel.NewUUID()
	cmd, err := commands.NewRequestWithdrawalCommand(accountID, 80000)
	require.NoError(t, err)

	ledger := new(MockLedgerRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("LedgerRepository").Return(ledger)
	ledger.On("GetAccount", ctx, accountID).Return(nil, errs.NewObjectNotFoundError("wallet account", accountID.String()))
	uow.On("Rollback", ctx).Return(nil)

	_, err = commands.NewRequestWithdrawalCommandHandler(MockLedgerUoWFactory{uow}, new(MockNotifier)).Handle(ctx, cmd)

	var fundsErr *errs.InsufficientFundsError
	require.ErrorAs(t, err, &fundsErr)
	assert.Equal(t, int64(80000), fundsErr.Requested)
	assert.Zero(t, fundsErr.Available)
	ledger.AssertNotCalled(t, "Post", mock.Anything, mock.Anything)
}

func TestNewRequestWithdrawalCommand_RejectsNonPositiveAmount(t *testing.T) {
	_, err := commands.NewRequestWithdrawalCommand(kernel.NewUUID(), 0)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestSettleLedgerCommandHandler_Handle_NotifiesPerAccount(t *testing.T) {
	ctx := t.Context()
	sellerA, sellerB := kernel.NewUUID(), kernel.NewUUID()
	now := time.Now().UTC()
	settlements := []wallet.Settlement{
		{EntryID: kernel.NewUUID(), AccountID: sellerA, Amount: 37800, SettledAt: now},
		{EntryID: kernel.NewUUID(), AccountID: sellerA, Amount: 1200, SettledAt: now},
		{EntryID: kernel.NewUUID(), AccountID: sellerB, Amount: 500, SettledAt: now},
	}
	cmd, err := commands.NewSettleLedgerCommand(wallet.KindSeller)
	require.NoError(t, err)

	ledger := new(MockLedgerRepository)
	uow := new(MockUoW)
	notifier := new(MockNotifier)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("LedgerRepository").Return(ledger).Once(),
		ledger.On("SettleDue", ctx, wallet.KindSeller, mock.AnythingOfType("time.Time")).Return(settlements, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	notifier.On("EntriesSettled", ctx, mock.Anything).Once()

	settled, err := commands.NewSettleLedgerCommandHandler(MockLedgerUoWFactory{uow}, notifier).Handle(ctx, cmd)

	require.NoError(t, err)
	require.Len(t, settled, 2)
	assert.Equal(t, sellerA, settled[0].AccountID)
	assert.Equal(t, kernel.Money(39000), settled[0].Amount)
	assert.Equal(t, 2, settled[0].Entries)
	notifier.AssertExpectations(t)
}

func TestSettleLedgerCommandHandler_Handle_NothingDue(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewSettleLedgerCommand(wallet.KindCourier)
	require.NoError(t, err)

	ledger := new(MockLedgerRepository)
	uow := new(MockUoW)
	notifier := new(MockNotifier)
	uow.On("Begin", ctx).Return(nil)
	uow.On("LedgerRepository").Return(ledger)
	ledger.On("SettleDue", ctx, wallet.KindCourier, mock.Anything).Return([]wallet.Settlement{}, nil)
	uow.On("Commit", ctx).Return(nil)
	uow.On("Rollback", ctx).Return(nil)

	settled, err := commands.NewSettleLedgerCommandHandler(MockLedgerUoWFactory{uow}, notifier).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Empty(t, settled)
	notifier.AssertNotCalled(t, "EntriesSettled", mock.Anything, mock.Anything)
}
