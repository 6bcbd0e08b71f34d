package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snackparty/catering-api/internal/mailer"
	"github.com/snackparty/catering-api/internal/observability"
	"github.com/snackparty/catering-api/internal/storage"
)

func TestUploadService_UploadAndDelete(t *testing.T) {
	store := newFakeImageStore(5 << 20)
	svc := NewUploadService(store, nil)
	ctx := context.Background()

	img, err := svc.Upload(ctx, &storage.UploadInput{
		FileName:    "foto.PNG",
		ContentType: "image/png",
		Size:        1024,
		Body:        strings.NewReader("png"),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(img.PublicID, storage.KeyPrefix+"/"))
	assert.True(t, strings.HasSuffix(img.PublicID, ".png"))

	require.NoError(t, svc.Delete(ctx, img.PublicID))
	de := requireDomainError(t, svc.Delete(ctx, img.PublicID), http.StatusNotFound)
	assert.Equal(t, msgImageNotFound, de.Message)

	de = requireDomainError(t, svc.Delete(ctx, ""), http.StatusBadRequest)
	assert.Equal(t, msgPublicIDRequired, de.Message)
}

func TestUploadService_Rejections(t *testing.T) {
	svc := NewUploadService(newFakeImageStore(5<<20), nil)
	ctx := context.Background()

	_, err := svc.Upload(ctx, nil)
	requireDomainError(t, err, http.StatusBadRequest)

	_, err = svc.Upload(ctx, &storage.UploadInput{FileName: "a.pdf", ContentType: "application/pdf", Size: 10, Body: strings.NewReader("x")})
	de := requireDomainError(t, err, http.StatusBadRequest)
	assert.Equal(t, msgOnlyImages, de.Message)

	_, err = svc.Upload(ctx, &storage.UploadInput{FileName: "a.jpg", ContentType: "image/jpeg", Size: 6 << 20, Body: strings.NewReader("x")})
	de = requireDomainError(t, err, http.StatusBadRequest)
	assert.Equal(t, "El archivo excede el tamaño máximo de 5 MB", de.Message)
}

func TestUploadService_Unconfigured(t *testing.T) {
	svc := NewUploadService(nil, nil)
	_, err := svc.Upload(context.Background(), &storage.UploadInput{})
	requireDomainError(t, err, http.StatusServiceUnavailable)
	requireDomainError(t, svc.Delete(context.Background(), "x"), http.StatusServiceUnavailable)
}

func TestContactService_Submit(t *testing.T) {
	sender := &fakeSender{result: mailer.Result{Success: true}}
	metrics := observability.NewMetrics()
	svc := NewContactService(sender, metrics, nil)

	res, err := svc.Submit(context.Background(), mailer.ContactForm{Name: "Ana", Email: "ana@gmail.com", Message: "Hola\nQuiero info"})
	require.NoError(t, err)
	assert.True(t, res.EmailSent)
	assert.Equal(t, msgContactSent, res.Message)

	sent := sender.messages()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].HTML, "Hola<br>Quiero info")
	assert.Equal(t, int64(1), metrics.Snapshot().Emails["contact|sent"])

	_, err = svc.Submit(context.Background(), mailer.ContactForm{Name: "Ana", Email: "ana@gmail.com"})
	de := requireDomainError(t, err, http.StatusBadRequest)
	assert.Equal(t, msgContactRequired, de.Message)
}

func TestContactService_FailureStillSucceeds(t *testing.T) {
	sender := &fakeSender{result: mailer.Result{Err: errors.New("timeout")}}
	svc := NewContactService(sender, nil, nil)

	res, err := svc.Submit(context.Background(), mailer.ContactForm{Name: "Ana", Email: "ana@gmail.com", Message: "Hola"})
	require.NoError(t, err)
	assert.False(t, res.EmailSent)

	diag, err := svc.Diagnostics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fake", diag.Debug.Provider)
	assert.False(t, diag.Verify.OK)
}
