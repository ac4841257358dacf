package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appidentity "github.com/Assey1152/orders/internal/application/identity"
	"github.com/Assey1152/orders/internal/domain/identity"
)

func TestContactHandler_CreateAndList(t *testing.T) {
	s := newTestServer(t)
	_, token := s.seedUser(t, "buyer@example.com", identity.UserTypeBuyer)

	w := s.request(t, http.MethodPost, "/api/v1/user/contacts", token, gin.H{
		"city":      "Москва",
		"street":    "Тверская",
		"house":     "12",
		"apartment": "45",
		"phone":     "+79990000000",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var contact appidentity.ContactView
	decodeData(t, w, &contact)
	assert.Equal(t, "Москва", contact.City)
	assert.Equal(t, "45", contact.Apartment)

	w = s.request(t, http.MethodGet, "/api/v1/user/contacts", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var contacts []appidentity.ContactView
	decodeData(t, w, &contacts)
	assert.Len(t, contacts, 1)
}

func TestContactHandler_CreateValidation(t *testing.T) {
	s := newTestServer(t)
	_, token := s.seedUser(t, "buyer@example.com", identity.UserTypeBuyer)

	w := s.request(t, http.MethodPost, "/api/v1/user/contacts", token, gin.H{
		"city":   "Москва",
		"street": "Тверская",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContactHandler_UpdateAndDelete(t *testing.T) {
	s := newTestServer(t)
	_, token := s.seedUser(t, "buyer@example.com", identity.UserTypeBuyer)

	w := s.request(t, http.MethodPost, "/api/v1/user/contacts", token, gin.H{
		"city":   "Москва",
		"street": "Тверская",
		"phone":  "+79990000000",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var contact appidentity.ContactView
	decodeData(t, w, &contact)

	w = s.request(t, http.MethodPut, "/api/v1/user/contacts/"+contact.ID.String(), token, gin.H{
		"city":   "Санкт-Петербург",
		"street": "Невский проспект",
		"phone":  "+79990000001",
	})
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &contact)
	assert.Equal(t, "Санкт-Петербург", contact.City)

	// A contact of another user is invisible
	_, otherToken := s.seedUser(t, "other@example.com", identity.UserTypeBuyer)
	w = s.request(t, http.MethodPut, "/api/v1/user/contacts/"+contact.ID.String(), otherToken, gin.H{
		"city":   "Казань",
		"street": "Баумана",
		"phone":  "+79990000002",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.request(t, http.MethodDelete, "/api/v1/user/contacts/"+uuid.NewString(), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.request(t, http.MethodDelete, "/api/v1/user/contacts/"+contact.ID.String(), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.request(t, http.MethodGet, "/api/v1/user/contacts", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var contacts []appidentity.ContactView
	decodeData(t, w, &contacts)
	assert.Empty(t, contacts)
}
