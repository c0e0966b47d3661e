package review_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appcommission "github.com/commtrack/backend/internal/application/commission"
	appreview "github.com/commtrack/backend/internal/application/review"
	"github.com/commtrack/backend/internal/domain/commission"
	"github.com/commtrack/backend/internal/domain/identity"
	"github.com/commtrack/backend/internal/domain/review"
	"github.com/commtrack/backend/internal/domain/shared"
	"github.com/commtrack/backend/internal/infrastructure/extraction"
	"github.com/commtrack/backend/internal/infrastructure/storage"
)

type fakeProfileRepo struct {
	profiles map[uuid.UUID]*identity.Profile
}

func (r *fakeProfileRepo) Create(_ context.Context, p *identity.Profile) error {
	r.profiles[p.ID] = p
	return nil
}

func (r *fakeProfileRepo) Update(_ context.Context, p *identity.Profile) error {
	r.profiles[p.ID] = p
	return nil
}

func (r *fakeProfileRepo) FindByID(_ context.Context, id uuid.UUID) (*identity.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *fakeProfileRepo) FindByEmail(_ context.Context, email string) (*identity.Profile, error) {
	for _, p := range r.profiles {
		if strings.EqualFold(p.Email, email) {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProfileRepo) FindAll(_ context.Context) ([]*identity.Profile, error) {
	return nil, nil
}

func (r *fakeProfileRepo) FindByTeam(_ context.Context, _ uuid.UUID) ([]*identity.Profile, error) {
	return nil, nil
}

func (r *fakeProfileRepo) ExistsByEmail(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func (r *fakeProfileRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.profiles)), nil
}

type fakeTeamRepo struct{}

func (fakeTeamRepo) Create(_ context.Context, _ *identity.Team) error { return nil }
func (fakeTeamRepo) Update(_ context.Context, _ *identity.Team) error { return nil }
func (fakeTeamRepo) FindByID(_ context.Context, _ uuid.UUID) (*identity.Team, error) {
	return nil, shared.ErrNotFound
}
func (fakeTeamRepo) FindAll(_ context.Context) ([]*identity.Team, error) { return nil, nil }
func (fakeTeamRepo) FindByManager(_ context.Context, _ uuid.UUID) ([]*identity.Team, error) {
	return nil, nil
}

type fakeEntryRepo struct {
	entries map[uuid.UUID]*commission.Entry
}

func (r *fakeEntryRepo) Create(_ context.Context, e *commission.Entry) error {
	r.entries[e.ID] = e
	return nil
}

func (r *fakeEntryRepo) Update(_ context.Context, e *commission.Entry) error {
	r.entries[e.ID] = e
	return nil
}

func (r *fakeEntryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.entries, id)
	return nil
}

func (r *fakeEntryRepo) FindByID(_ context.Context, id uuid.UUID) (*commission.Entry, error) {
	e, ok := r.entries[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return e, nil
}

func (r *fakeEntryRepo) FindByOwners(_ context.Context, _ []uuid.UUID) ([]*commission.Entry, error) {
	var out []*commission.Entry
	for _, e := range r.entries {
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeEntryRepo) ExistsByInvoiceNumber(_ context.Context, ownerID uuid.UUID, invoiceNumber string) (bool, error) {
	for _, e := range r.entries {
		if e.OwnerID == ownerID && strings.EqualFold(e.InvoiceNumber, strings.TrimSpace(invoiceNumber)) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEntryRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.entries)), nil
}

type reviewFixture struct {
	svc       *appreview.Service
	extractor *extraction.FakeExtractor
	store     *storage.MemoryObjectStorage
	entries   *fakeEntryRepo
	owner     *identity.Profile
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()

	profiles := &fakeProfileRepo{profiles: make(map[uuid.UUID]*identity.Profile)}
	owner, err := identity.NewProfile("noam@example.com", "Noam", "secret123", identity.RoleUser, decimal.NewFromInt(10))
	require.NoError(t, err)
	require.NoError(t, profiles.Create(context.Background(), owner))

	entries := &fakeEntryRepo{entries: make(map[uuid.UUID]*commission.Entry)}
	entryService := appcommission.NewEntryService(entries, profiles,
		appcommission.NewScopeResolver(profiles, fakeTeamRepo{}), zap.NewNop())

	extractor := &extraction.FakeExtractor{
		Fields: &review.RawInvoiceFields{
			InvoiceNumber:   "INV-555",
			Customer:        "Acme",
			AmountBeforeVAT: "1200.50",
			InvoiceDate:     "2026-03-14",
		},
	}
	store := storage.NewMemoryObjectStorage()

	return &reviewFixture{
		svc: appreview.NewService(extractor, store, entryService, profiles,
			5*time.Second, 10<<20, zap.NewNop()),
		extractor: extractor,
		store:     store,
		entries:   entries,
		owner:     owner,
	}
}

func (f *reviewFixture) uploadAndWait(t *testing.T, want review.UploadStatus) appreview.ItemView {
	t.Helper()
	ctx := context.Background()

	item, err := f.svc.Upload(ctx, f.owner.ID, "invoice.png", "image/png", []byte("png-bytes"))
	require.NoError(t, err)

	var latest *appreview.ItemView
	require.Eventually(t, func() bool {
		latest, err = f.svc.Get(ctx, f.owner.ID, item.ID)
		require.NoError(t, err)
		return latest.Status == want
	}, 2*time.Second, 10*time.Millisecond)

	return *latest
}

func TestService_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("successful pipeline reaches ready with fields", func(t *testing.T) {
		f := newReviewFixture(t)

		item := f.uploadAndWait(t, review.UploadStatusReady)

		require.NotNil(t, item.Fields)
		assert.Equal(t, "INV-555", item.Fields.InvoiceNumber)
		assert.Equal(t, 1, item.Attempts)
		assert.Equal(t, 1, f.store.Len())
	})

	t.Run("extraction failure reaches error with reason", func(t *testing.T) {
		f := newReviewFixture(t)
		f.extractor.Err = errors.New("model unavailable")

		item := f.uploadAndWait(t, review.UploadStatusError)

		assert.NotEmpty(t, item.ErrorReason)
		assert.Nil(t, item.Fields)
	})

	t.Run("unsupported content type is rejected", func(t *testing.T) {
		f := newReviewFixture(t)

		_, err := f.svc.Upload(ctx, f.owner.ID, "notes.txt", "text/plain", []byte("hello"))

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UNSUPPORTED_FILE_TYPE", domainErr.Code)
	})

	t.Run("empty file is rejected", func(t *testing.T) {
		f := newReviewFixture(t)

		_, err := f.svc.Upload(ctx, f.owner.ID, "invoice.png", "image/png", nil)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EMPTY_FILE", domainErr.Code)
	})

	t.Run("oversized file is rejected", func(t *testing.T) {
		f := newReviewFixture(t)
		f.svc = appreview.NewService(f.extractor, f.store, nil, nil, time.Second, 4, zap.NewNop())

		_, err := f.svc.Upload(ctx, f.owner.ID, "invoice.png", "image/png", []byte("12345"))

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "FILE_TOO_LARGE", domainErr.Code)
	})
}

func TestService_Retry(t *testing.T) {
	ctx := context.Background()

	t.Run("retry restarts a failed item", func(t *testing.T) {
		f := newReviewFixture(t)
		f.extractor.Err = errors.New("model unavailable")
		item := f.uploadAndWait(t, review.UploadStatusError)

		f.extractor.Err = nil
		_, err := f.svc.Retry(ctx, f.owner.ID, item.ID)
		require.NoError(t, err)

		require.Eventually(t, func() bool {
			latest, err := f.svc.Get(ctx, f.owner.ID, item.ID)
			require.NoError(t, err)
			return latest.Status == review.UploadStatusReady
		}, 2*time.Second, 10*time.Millisecond)

		latest, err := f.svc.Get(ctx, f.owner.ID, item.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, latest.Attempts)
		assert.Empty(t, latest.ErrorReason)
	})

	t.Run("ready item cannot be retried", func(t *testing.T) {
		f := newReviewFixture(t)
		item := f.uploadAndWait(t, review.UploadStatusReady)

		_, err := f.svc.Retry(ctx, f.owner.ID, item.ID)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_RETRYABLE", domainErr.Code)
	})
}

func TestService_Draft(t *testing.T) {
	ctx := context.Background()

	t.Run("draft is prefilled from extracted fields", func(t *testing.T) {
		f := newReviewFixture(t)
		item := f.uploadAndWait(t, review.UploadStatusReady)

		draft, err := f.svc.Draft(ctx, f.owner.ID, item.ID)

		require.NoError(t, err)
		assert.Equal(t, "INV-555", draft.InvoiceNumber)
		assert.True(t, draft.AmountBeforeVAT.Equal(decimal.NewFromFloat(1200.50)))
		assert.True(t, draft.CommissionRate.Equal(decimal.NewFromInt(10)))
		assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), draft.InvoiceMonth)
		assert.Nil(t, draft.CostBeforeVAT)
	})

	t.Run("foreign currency is converted with metadata", func(t *testing.T) {
		f := newReviewFixture(t)
		f.extractor.Fields.CurrencyCode = "USD"
		f.extractor.Fields.AmountBeforeVAT = "100"
		item := f.uploadAndWait(t, review.UploadStatusReady)

		draft, err := f.svc.Draft(ctx, f.owner.ID, item.ID)

		require.NoError(t, err)
		assert.True(t, draft.AmountBeforeVAT.Equal(decimal.NewFromInt(365)))
		require.NotNil(t, draft.Conversion)
		assert.Equal(t, "USD", draft.Conversion.OriginalCurrency)
		assert.True(t, draft.Conversion.OriginalAmount.Equal(decimal.NewFromInt(100)))
	})

	t.Run("blank draft uses the default rate and current month", func(t *testing.T) {
		f := newReviewFixture(t)

		draft, err := f.svc.BlankDraft(ctx, f.owner.ID)

		require.NoError(t, err)
		assert.Empty(t, draft.InvoiceNumber)
		assert.True(t, draft.CommissionRate.Equal(decimal.NewFromInt(10)))
		assert.Equal(t, commission.FirstOfMonth(time.Now()), draft.InvoiceMonth)
	})

	t.Run("draft of an unfinished item is refused", func(t *testing.T) {
		f := newReviewFixture(t)
		f.extractor.Err = errors.New("model unavailable")
		item := f.uploadAndWait(t, review.UploadStatusError)

		_, err := f.svc.Draft(ctx, f.owner.ID, item.ID)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ITEM_NOT_READY", domainErr.Code)
	})
}

func TestService_SaveEntry(t *testing.T) {
	ctx := context.Background()

	saveInput := func() appreview.SaveEntryInput {
		cost := decimal.NewFromInt(100)
		return appreview.SaveEntryInput{
			InvoiceNumber:   "INV-555",
			Customer:        "Acme",
			AmountBeforeVAT: decimal.NewFromFloat(1200.50),
			CostBeforeVAT:   &cost,
			InvoiceMonth:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		}
	}

	t.Run("save creates an entry and locks the item", func(t *testing.T) {
		f := newReviewFixture(t)
		item := f.uploadAndWait(t, review.UploadStatusReady)

		info, err := f.svc.SaveEntry(ctx, f.owner.ID, item.ID, saveInput())

		require.NoError(t, err)
		assert.Equal(t, f.owner.ID, info.OwnerID)
		assert.NotEmpty(t, info.FileKey)

		latest, err := f.svc.Get(ctx, f.owner.ID, item.ID)
		require.NoError(t, err)
		assert.True(t, latest.Saved)
		require.NotNil(t, latest.EntryID)
		assert.Equal(t, info.ID, *latest.EntryID)
	})

	t.Run("second save of the same item is refused", func(t *testing.T) {
		f := newReviewFixture(t)
		item := f.uploadAndWait(t, review.UploadStatusReady)

		_, err := f.svc.SaveEntry(ctx, f.owner.ID, item.ID, saveInput())
		require.NoError(t, err)

		input := saveInput()
		input.ConfirmDuplicate = true
		_, err = f.svc.SaveEntry(ctx, f.owner.ID, item.ID, input)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_SAVED", domainErr.Code)
	})

	t.Run("blank cost surfaces the confirmation gate", func(t *testing.T) {
		f := newReviewFixture(t)
		item := f.uploadAndWait(t, review.UploadStatusReady)
		input := saveInput()
		input.CostBeforeVAT = nil

		_, err := f.svc.SaveEntry(ctx, f.owner.ID, item.ID, input)

		var confirmErr *shared.ConfirmationError
		require.ErrorAs(t, err, &confirmErr)
		assert.Equal(t, appcommission.GateZeroCost, confirmErr.Gate)

		latest, getErr := f.svc.Get(ctx, f.owner.ID, item.ID)
		require.NoError(t, getErr)
		assert.False(t, latest.Saved)
	})
}

func TestService_RemoveAndFile(t *testing.T) {
	ctx := context.Background()

	t.Run("file preview returns the stored bytes", func(t *testing.T) {
		f := newReviewFixture(t)
		item := f.uploadAndWait(t, review.UploadStatusReady)

		data, contentType, err := f.svc.File(ctx, f.owner.ID, item.ID)

		require.NoError(t, err)
		assert.Equal(t, []byte("png-bytes"), data)
		assert.Equal(t, "image/png", contentType)
	})

	t.Run("remove drops the item and its file", func(t *testing.T) {
		f := newReviewFixture(t)
		item := f.uploadAndWait(t, review.UploadStatusReady)

		require.NoError(t, f.svc.Remove(ctx, f.owner.ID, item.ID))

		_, err := f.svc.Get(ctx, f.owner.ID, item.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Equal(t, 0, f.store.Len())
	})

	t.Run("remove keeps the file of a saved item", func(t *testing.T) {
		f := newReviewFixture(t)
		item := f.uploadAndWait(t, review.UploadStatusReady)
		cost := decimal.NewFromInt(0)
		_, err := f.svc.SaveEntry(ctx, f.owner.ID, item.ID, appreview.SaveEntryInput{
			InvoiceNumber:   "INV-555",
			Customer:        "Acme",
			AmountBeforeVAT: decimal.NewFromInt(100),
			CostBeforeVAT:   &cost,
			InvoiceMonth:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)

		require.NoError(t, f.svc.Remove(ctx, f.owner.ID, item.ID))

		assert.Equal(t, 1, f.store.Len())
	})

	t.Run("another user's item is invisible", func(t *testing.T) {
		f := newReviewFixture(t)
		item := f.uploadAndWait(t, review.UploadStatusReady)

		_, err := f.svc.Get(ctx, uuid.New(), item.ID)

		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}
