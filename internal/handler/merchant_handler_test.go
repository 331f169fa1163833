package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMerchant(t *testing.T) {
	db := setupTest(t)
	user := seedUser(t, db, "ana@example.com", "secret123")

	c, rec := newRequest(t, http.MethodPost, "/api/merchants", map[string]string{
		"name":        "Cafe Centro",
		"description": "Coffee shop downtown",
	}, ownerClaims(user))

	require.NoError(t, CreateMerchant(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "Cafe Centro", body["name"])
	assert.Equal(t, float64(user.ID), body["owner_id"])
	assert.Equal(t, true, body["is_active"])
}

func TestCreateMerchantRequiresName(t *testing.T) {
	db := setupTest(t)
	user := seedUser(t, db, "ana@example.com", "secret123")

	c, rec := newRequest(t, http.MethodPost, "/api/merchants", map[string]string{}, ownerClaims(user))

	require.NoError(t, CreateMerchant(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListMerchantsScopedToOwner(t *testing.T) {
	db := setupTest(t)
	user := seedUser(t, db, "ana@example.com", "secret123")
	other := seedUser(t, db, "luis@example.com", "secret123")
	mine := seedMerchant(t, db, user.ID, "Cafe Centro")
	seedMerchant(t, db, other.ID, "Otro Negocio")

	c, rec := newRequest(t, http.MethodGet, "/api/merchants", nil, ownerClaims(user))

	require.NoError(t, ListMerchants(c))
	require.Equal(t, http.StatusOK, rec.Code)

	list := decodeList(t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, float64(mine.ID), list[0]["id"])
}

func TestGetForeignMerchantNotFound(t *testing.T) {
	db := setupTest(t)
	user := seedUser(t, db, "ana@example.com", "secret123")
	other := seedUser(t, db, "luis@example.com", "secret123")
	foreign := seedMerchant(t, db, other.ID, "Otro Negocio")

	c, rec := newRequest(t, http.MethodGet, "/api/merchants/1", nil, ownerClaims(user))
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(foreign.ID))

	require.NoError(t, GetMerchant(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateMerchantPartial(t *testing.T) {
	db := setupTest(t)
	user := seedUser(t, db, "ana@example.com", "secret123")
	merchant := seedMerchant(t, db, user.ID, "Cafe Centro")
	require.NoError(t, db.Model(&merchant).Update("description", "old").Error)

	c, rec := newRequest(t, http.MethodPut, "/api/merchants/1", map[string]string{
		"name": "Cafe Renombrado",
	}, ownerClaims(user))
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(merchant.ID))

	require.NoError(t, UpdateMerchant(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "Cafe Renombrado", body["name"])
	assert.Equal(t, "old", body["description"])
}

func TestDeleteMerchantHidesItFromList(t *testing.T) {
	db := setupTest(t)
	user := seedUser(t, db, "ana@example.com", "secret123")
	merchant := seedMerchant(t, db, user.ID, "Cafe Centro")

	c, rec := newRequest(t, http.MethodDelete, "/api/merchants/1", nil, ownerClaims(user))
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(merchant.ID))

	require.NoError(t, DeleteMerchant(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "merchant deactivated", decodeBody(t, rec)["message"])

	c, rec = newRequest(t, http.MethodGet, "/api/merchants", nil, ownerClaims(user))
	require.NoError(t, ListMerchants(c))
	assert.Len(t, decodeList(t, rec), 0)

	// deactivation is terminal, a second get must 404
	c, rec = newRequest(t, http.MethodGet, "/api/merchants/1", nil, ownerClaims(user))
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(merchant.ID))
	require.NoError(t, GetMerchant(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
