package service

import (
	"context"
	"errors"
	"math"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snackparty/catering-api/internal/domain"
	"github.com/snackparty/catering-api/internal/events"
	apperrors "github.com/snackparty/catering-api/pkg/util/errorutil"
	"github.com/snackparty/catering-api/pkg/util/pagination"
)

var fixedNow = time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

type quotationFixture struct {
	state      *memState
	dispatcher *recordingDispatcher
	svc        *QuotationService
	client     domain.Actor
	other      domain.Actor
	admin      domain.Actor
	barra      domain.CatalogItem
	combo      domain.CatalogItem
	inactive   domain.CatalogItem
}

func newQuotationFixture(t *testing.T) *quotationFixture {
	t.Helper()
	state := newMemState()
	dispatcher := &recordingDispatcher{}
	ana := state.addUser("Ana", "ana@gmail.com", domain.RoleClient)
	luis := state.addUser("Luis", "luis@gmail.com", domain.RoleClient)
	admin := state.addUser("Admin", "admin@gmail.com", domain.RoleAdmin)

	return &quotationFixture{
		state:      state,
		dispatcher: dispatcher,
		svc: NewQuotationService(QuotationDependencies{
			Store:      &memTxRunner{state: state},
			Quotations: &memQuotationRepo{state: state},
			Dispatcher: dispatcher,
			Clock:      func() time.Time { return fixedNow },
		}),
		client:   domain.Actor{UserID: ana.ID, Role: ana.Role},
		other:    domain.Actor{UserID: luis.ID, Role: luis.Role},
		admin:    domain.Actor{UserID: admin.ID, Role: admin.Role},
		barra:    state.addCatalogItem("Barra de frutas", domain.CatalogStatusActive),
		combo:    state.addCatalogItem("Combo fiesta", domain.CatalogStatusActive),
		inactive: state.addCatalogItem("Barra retirada", domain.CatalogStatusInactive),
	}
}

func (f *quotationFixture) validInput(lines ...domain.QuotationLine) CreateQuotationInput {
	return CreateQuotationInput{
		EventAddress: "Calle 10 #5-20",
		EventDate:    fixedNow.AddDate(0, 0, 30).Format(time.DateOnly),
		EventType:    "Cumpleaños",
		GuestCount:   50,
		Items:        lines,
	}
}

func (f *quotationFixture) create(t *testing.T, actor domain.Actor) *domain.Quotation {
	t.Helper()
	q, err := f.svc.Create(context.Background(), actor, f.validInput(domain.QuotationLine{CatalogItemID: f.barra.ID, Quantity: 1}))
	require.NoError(t, err)
	return q
}

func requireDomainError(t *testing.T, err error, status int) *apperrors.DomainError {
	t.Helper()
	require.Error(t, err)
	var de *apperrors.DomainError
	require.True(t, errors.As(err, &de), "expected DomainError, got %T: %v", err, err)
	assert.Equal(t, status, de.HTTPStatus)
	return de
}

func TestCreate_HappyPath(t *testing.T) {
	f := newQuotationFixture(t)
	ctx := context.Background()

	q, err := f.svc.Create(ctx, f.client, f.validInput(
		domain.QuotationLine{CatalogItemID: f.barra.ID, Quantity: 1},
		domain.QuotationLine{CatalogItemID: f.combo.ID, Quantity: 3},
	))
	require.NoError(t, err)
	assert.NotZero(t, q.ID)
	assert.Equal(t, domain.QuotationStatusPending, q.Status)

	list, meta, err := f.svc.ListMine(ctx, f.client, QuotationListInput{Page: pagination.New(1, 10)})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Items, 2)
	assert.Nil(t, list[0].Personalization)
	assert.Equal(t, int64(1), meta.Total)

	created := f.dispatcher.ofType(events.EventQuotationCreated)
	require.Len(t, created, 1)
	payload, ok := created[0].Payload.(events.QuotationCreatedPayload)
	require.True(t, ok)
	assert.Equal(t, 2, payload.ItemCount)
	assert.Equal(t, q.ID, created[0].QuotationID)
}

func TestCreate_RollsBackOnInvalidItem(t *testing.T) {
	f := newQuotationFixture(t)
	ctx := context.Background()

	cases := map[string]domain.QuotationLine{
		"unknown item":  {CatalogItemID: 9999, Quantity: 1},
		"inactive item": {CatalogItemID: f.inactive.ID, Quantity: 1},
	}
	for name, bad := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, f.client, f.validInput(
				domain.QuotationLine{CatalogItemID: f.barra.ID, Quantity: 2},
				bad,
			))
			de := requireDomainError(t, err, http.StatusBadRequest)
			assert.Equal(t, "ITEM_NOT_AVAILABLE", de.Code)
			assert.Equal(t, 0, f.state.quotationCount())
			assert.Equal(t, 0, f.state.lineCount())
		})
	}

	_, err := f.svc.Create(ctx, f.client, f.validInput(domain.QuotationLine{CatalogItemID: f.barra.ID, Quantity: 0}))
	de := requireDomainError(t, err, http.StatusBadRequest)
	assert.Equal(t, "VALIDATION_FAILED", de.Code)
	assert.Equal(t, 0, f.state.quotationCount())
	assert.Empty(t, f.dispatcher.ofType(events.EventQuotationCreated))
}

func TestCreate_Validation(t *testing.T) {
	f := newQuotationFixture(t)
	ctx := context.Background()

	in := f.validInput()
	in.EventDate = fixedNow.AddDate(0, 0, -1).Format(time.DateOnly)
	_, err := f.svc.Create(ctx, f.client, in)
	de := requireDomainError(t, err, http.StatusBadRequest)
	assert.Equal(t, msgPastDate, de.Message)

	in = f.validInput()
	in.EventDate = fixedNow.Format(time.DateOnly)
	_, err = f.svc.Create(ctx, f.client, in)
	require.NoError(t, err, "today is a valid event date")

	in = f.validInput()
	in.GuestCount = 0
	_, err = f.svc.Create(ctx, f.client, in)
	assert.Equal(t, msgMissingFields, requireDomainError(t, err, http.StatusBadRequest).Message)

	in = f.validInput()
	in.GuestCount = -4
	_, err = f.svc.Create(ctx, f.client, in)
	assert.Equal(t, msgGuestCount, requireDomainError(t, err, http.StatusBadRequest).Message)

	in = f.validInput()
	in.GuestCount = math.MaxInt32 + 1
	_, err = f.svc.Create(ctx, f.client, in)
	assert.Equal(t, msgGuestCountTooLarge, requireDomainError(t, err, http.StatusBadRequest).Message)

	in = f.validInput()
	in.Items = []domain.QuotationLine{{CatalogItemID: math.MaxInt32 + 1, Quantity: 1}}
	_, err = f.svc.Create(ctx, f.client, in)
	assert.Equal(t, "ITEM_NOT_AVAILABLE", requireDomainError(t, err, http.StatusBadRequest).Code)

	in = f.validInput()
	in.Items = []domain.QuotationLine{{CatalogItemID: f.barra.ID, Quantity: math.MaxInt32 + 1}}
	_, err = f.svc.Create(ctx, f.client, in)
	assert.Equal(t, msgInvalidLine, requireDomainError(t, err, http.StatusBadRequest).Message)

	in = f.validInput()
	in.EventDate = "mañana"
	_, err = f.svc.Create(ctx, f.client, in)
	requireDomainError(t, err, http.StatusBadRequest)

	assert.Equal(t, 1, f.state.quotationCount())
}

func TestOwnershipIsolation(t *testing.T) {
	f := newQuotationFixture(t)
	ctx := context.Background()
	q := f.create(t, f.client)

	list, _, err := f.svc.ListMine(ctx, f.other, QuotationListInput{Page: pagination.New(1, 100)})
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = f.svc.Get(ctx, f.other, q.ID)
	de := requireDomainError(t, err, http.StatusNotFound)
	assert.Equal(t, msgQuotationNotFound, de.Message)

	got, err := f.svc.Get(ctx, f.admin, q.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Owner)
	assert.Equal(t, "ana@gmail.com", got.Owner.Email)

	_, _, err = f.svc.ListAll(ctx, f.client, QuotationListInput{Page: pagination.New(1, 10)})
	requireDomainError(t, err, http.StatusForbidden)
}

func TestList_StatusFilter(t *testing.T) {
	f := newQuotationFixture(t)
	ctx := context.Background()
	first := f.create(t, f.client)
	f.create(t, f.client)
	_, err := f.svc.UpdateStatus(ctx, f.admin, first.ID, "Enviada")
	require.NoError(t, err)

	list, meta, err := f.svc.ListAll(ctx, f.admin, QuotationListInput{Status: "Enviada", Page: pagination.New(1, 10)})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, int64(1), meta.Pages)

	_, _, err = f.svc.ListMine(ctx, f.client, QuotationListInput{Status: "Cerrada", Page: pagination.New(1, 10)})
	requireDomainError(t, err, http.StatusBadRequest)
}

func TestDeletionGuard(t *testing.T) {
	f := newQuotationFixture(t)
	ctx := context.Background()
	q := f.create(t, f.client)

	err := f.svc.Delete(ctx, f.other, q.ID)
	requireDomainError(t, err, http.StatusForbidden)

	_, err = f.svc.UpdateStatus(ctx, f.admin, q.ID, "Aceptada")
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, f.client, q.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuotationStatusAccepted, got.Status)

	err = f.svc.Delete(ctx, f.client, q.ID)
	de := requireDomainError(t, err, http.StatusBadRequest)
	assert.Equal(t, msgOnlyPendingDelete, de.Message)
	assert.Equal(t, 1, f.state.quotationCount())

	err = f.svc.Delete(ctx, f.client, 424242)
	requireDomainError(t, err, http.StatusNotFound)
}

func TestDelete_PendingCascades(t *testing.T) {
	f := newQuotationFixture(t)
	ctx := context.Background()
	q := f.create(t, f.client)
	_, err := f.svc.SavePersonalization(ctx, f.client, q.ID, PersonalizationInput{Fruits: "Fresa"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, f.client, q.ID))
	assert.Equal(t, 0, f.state.quotationCount())
	assert.Equal(t, 0, f.state.lineCount())
}

func TestUpdateStatus_Validation(t *testing.T) {
	f := newQuotationFixture(t)
	ctx := context.Background()
	q := f.create(t, f.client)

	_, err := f.svc.UpdateStatus(ctx, f.admin, q.ID, "")
	assert.Equal(t, msgStatusRequired, requireDomainError(t, err, http.StatusBadRequest).Message)

	_, err = f.svc.UpdateStatus(ctx, f.admin, q.ID, "Cerrada")
	assert.Equal(t, msgStatusInvalid, requireDomainError(t, err, http.StatusBadRequest).Message)

	_, err = f.svc.UpdateStatus(ctx, f.admin, 424242, "Enviada")
	requireDomainError(t, err, http.StatusNotFound)

	_, err = f.svc.UpdateStatus(ctx, f.client, q.ID, "Aceptada")
	requireDomainError(t, err, http.StatusForbidden)

	// any status is reachable from any other
	_, err = f.svc.UpdateStatus(ctx, f.admin, q.ID, "Rechazada")
	require.NoError(t, err)
	updated, err := f.svc.UpdateStatus(ctx, f.admin, q.ID, "Pendiente")
	require.NoError(t, err)
	assert.Equal(t, domain.QuotationStatusPending, updated.Status)

	changes := f.dispatcher.ofType(events.EventQuotationStatusChanged)
	require.Len(t, changes, 2)
	payload := changes[1].Payload.(events.QuotationStatusChangedPayload)
	assert.Equal(t, domain.QuotationStatusRejected, payload.OldStatus)
}

func TestPersonalization_IdempotentReplace(t *testing.T) {
	f := newQuotationFixture(t)
	ctx := context.Background()
	q := f.create(t, f.client)

	in := PersonalizationInput{Fruits: " Fresa, ,Mango ", Chips: "Natural", Toppings: ""}
	first, err := f.svc.SavePersonalization(ctx, f.client, q.ID, in)
	require.NoError(t, err)
	second, err := f.svc.SavePersonalization(ctx, f.client, q.ID, in)
	require.NoError(t, err)

	assert.Equal(t, []string{"Fresa", "Mango"}, first.Fruits)
	assert.Equal(t, first.Fruits, second.Fruits)
	assert.Equal(t, first.Chips, second.Chips)
	assert.Nil(t, second.Toppings)

	third, err := f.svc.SavePersonalization(ctx, f.admin, q.ID, PersonalizationInput{Toppings: "Chocolate"})
	require.NoError(t, err)
	assert.Nil(t, third.Fruits)
	assert.Nil(t, third.Chips)
	assert.Equal(t, []string{"Chocolate"}, third.Toppings)

	stored, err := f.svc.GetPersonalization(ctx, f.client, q.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, []string{"Chocolate"}, stored.Toppings)
	assert.Nil(t, stored.Fruits)

	saved := f.dispatcher.ofType(events.EventPersonalizationSaved)
	require.Len(t, saved, 3)
	payload := saved[0].Payload.(events.PersonalizationSavedPayload)
	require.NotNil(t, payload.Quotation.Owner)
	assert.Equal(t, "Ana", payload.Quotation.Owner.FullName)
	assert.Equal(t, []string{"Fresa", "Mango"}, payload.Personalization.Fruits)
}

func TestPersonalization_ReturnsStoredRow(t *testing.T) {
	f := newQuotationFixture(t)
	ctx := context.Background()
	q := f.create(t, f.client)

	saved, err := f.svc.SavePersonalization(ctx, f.client, q.ID, PersonalizationInput{Chips: "Papas, Doritos"})
	require.NoError(t, err)
	assert.False(t, saved.UpdatedAt.IsZero())
	assert.Equal(t, q.ID, saved.QuotationID)

	published := f.dispatcher.ofType(events.EventPersonalizationSaved)
	require.Len(t, published, 1)
	payload := published[0].Payload.(events.PersonalizationSavedPayload)
	require.NotNil(t, payload.Quotation.Personalization)
	assert.Equal(t, saved.UpdatedAt, payload.Personalization.UpdatedAt)
	assert.Equal(t, []string{"Papas", "Doritos"}, payload.Quotation.Personalization.Chips)
}

func TestPersonalization_RequiresSelection(t *testing.T) {
	f := newQuotationFixture(t)
	ctx := context.Background()
	q := f.create(t, f.client)

	_, err := f.svc.SavePersonalization(ctx, f.client, q.ID, PersonalizationInput{Fruits: " , ", Chips: "  "})
	de := requireDomainError(t, err, http.StatusBadRequest)
	assert.Equal(t, msgEmptySelection, de.Message)

	stored, err := f.svc.GetPersonalization(ctx, f.client, q.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)
	assert.Empty(t, f.dispatcher.ofType(events.EventPersonalizationSaved))

	_, err = f.svc.SavePersonalization(ctx, f.other, q.ID, PersonalizationInput{Fruits: "Fresa"})
	requireDomainError(t, err, http.StatusForbidden)
}

func TestStats(t *testing.T) {
	f := newQuotationFixture(t)
	ctx := context.Background()
	q := f.create(t, f.client)
	f.create(t, f.other)
	_, err := f.svc.UpdateStatus(ctx, f.admin, q.ID, "Enviada")
	require.NoError(t, err)

	stats, err := f.svc.Stats(ctx, f.admin)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.Len(t, stats.ByStatus, 2)
	require.Len(t, stats.ByEventType, 1)
	assert.Equal(t, int64(2), stats.ByEventType[0].Count)

	_, err = f.svc.Stats(ctx, f.client)
	requireDomainError(t, err, http.StatusForbidden)
}

func TestPDF_FollowsVisibility(t *testing.T) {
	f := newQuotationFixture(t)
	ctx := context.Background()
	q := f.create(t, f.client)

	out, err := f.svc.PDF(ctx, f.client, q.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	_, err = f.svc.PDF(ctx, f.other, q.ID)
	requireDomainError(t, err, http.StatusNotFound)
}
