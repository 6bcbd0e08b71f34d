package mailer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snackparty/catering-api/internal/domain"
)

func sampleQuotation() domain.Quotation {
	requests := "Sin <script>maní</script>"
	return domain.Quotation{
		ID:              42,
		EventAddress:    "Calle 10 #5-20",
		EventDate:       time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC),
		EventType:       "Cumpleaños",
		GuestCount:      30,
		SpecialRequests: &requests,
		Owner:           &domain.QuotationOwner{FullName: "Ana Pérez", Email: "ana@gmail.com"},
	}
}

func TestQuotationCreatedEmail(t *testing.T) {
	msg, err := QuotationCreatedEmail(sampleQuotation(), 3, true)
	require.NoError(t, err)

	assert.Equal(t, "Nueva cotización recibida - Snack Party #42", msg.Subject)
	assert.Contains(t, msg.HTML, "Ana Pérez")
	assert.Contains(t, msg.HTML, "2026-12-24")
	assert.Contains(t, msg.HTML, "3 items")
	assert.Contains(t, msg.HTML, "Incluye personalización de snacks")
	assert.NotContains(t, msg.HTML, "<script>")
	assert.Contains(t, msg.HTML, "&lt;script&gt;")
	assert.Contains(t, msg.Text, "Número de invitados: 30")
}

func TestQuotationCreatedEmail_MissingOwner(t *testing.T) {
	q := sampleQuotation()
	q.Owner = nil
	q.SpecialRequests = nil

	msg, err := QuotationCreatedEmail(q, 0, false)
	require.NoError(t, err)
	assert.Contains(t, msg.Text, "Cliente: N/A")
	assert.NotContains(t, msg.Text, "Solicitudes especiales")
	assert.NotContains(t, msg.HTML, "Incluye personalización")
}

func TestPersonalizationSavedEmail_Defaults(t *testing.T) {
	p := domain.NewSnackPersonalization(42, "Fresa, Mango", "", "")

	msg, err := PersonalizationSavedEmail(sampleQuotation(), p)
	require.NoError(t, err)
	assert.Equal(t, "Personalización de snacks actualizada - Cotización #42", msg.Subject)
	assert.Contains(t, msg.Text, "Frutas/Verduras seleccionadas: Fresa, Mango")
	assert.Contains(t, msg.Text, "Chips seleccionados: Ninguno")
	assert.Contains(t, msg.Text, "Toppings seleccionados: Ninguno")

	msg, err = PersonalizationSavedEmail(sampleQuotation(), domain.NewSnackPersonalization(42, "", "Natural", ""))
	require.NoError(t, err)
	assert.Contains(t, msg.HTML, "Ninguna")
}

func TestContactEmail(t *testing.T) {
	msg, err := ContactEmail(ContactForm{Name: "Luis", Email: "luis@outlook.com", Message: "Hola\n<b>precio</b>"})
	require.NoError(t, err)
	assert.Equal(t, "Nuevo mensaje de contacto - Snack Party", msg.Subject)
	assert.Contains(t, msg.HTML, "Hola<br>&lt;b&gt;precio&lt;/b&gt;")
	assert.Contains(t, msg.Text, "Mensaje: Hola")
}
