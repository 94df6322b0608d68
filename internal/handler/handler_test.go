package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"minifignet/internal/catalog"
	"minifignet/internal/domain"
)

// Catalog ids shared across handler tests.
const (
	itemBrick     = 1
	itemGear      = 2
	itemBlueprint = 20
	itemWindmill  = 21

	bodyHello  = 1
	bodyThanks = 2
)

func TestMain(m *testing.M) {
	InitValidator()
	os.Exit(m.Run())
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(
		[]domain.Item{
			{ID: itemBrick, Name: "Red Brick", Type: domain.ItemTypeItem},
			{ID: itemGear, Name: "Gear", Type: domain.ItemTypeItem},
			{ID: itemBlueprint, Name: "Windmill Blueprint", Type: domain.ItemTypeBlueprint},
			{ID: itemWindmill, Name: "Windmill", Type: domain.ItemTypeItem},
		},
		[]domain.Blueprint{{
			ItemID:      itemBlueprint,
			BuildItemID: itemWindmill,
			Requirements: []domain.BlueprintRequirement{
				{ItemID: itemBrick, Quantity: 4},
				{ItemID: itemGear, Quantity: 1},
			},
		}},
		[]domain.MessageBody{
			{ID: bodyHello, Subject: "Hello", Text: "Hi!", EasyReplies: []int{bodyThanks}},
			{ID: bodyThanks, Subject: "Thanks", Text: "Thank you!"},
		},
		[]domain.StartingStack{{ItemID: itemBrick, Quantity: 5}},
	)
	require.NoError(t, err)
	return cat
}

// doJSON posts the payload to the handler and returns the recorder.
func doJSON(t *testing.T, h http.HandlerFunc, method, target string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		body = &bytes.Buffer{}
		require.NoError(t, json.NewEncoder(body).Encode(payload))
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(out))
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	return resp.Error
}
