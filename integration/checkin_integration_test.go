package integration_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/Linn-Htet123/mini-gym-api/internal/checkin"
	"github.com/Linn-Htet123/mini-gym-api/internal/member"
	"github.com/Linn-Htet123/mini-gym-api/internal/membership"
	"github.com/Linn-Htet123/mini-gym-api/internal/subscription"
)

func newCheckInRouter(db *sqlx.DB) *gin.Engine {
	memberRepo := member.NewRepository(db)
	packageRepo := membership.NewRepository(db)
	subs := subscription.NewService(subscription.NewRepository(db), packageRepo, memberRepo, noopSink{})
	service := checkin.NewService(checkin.NewRepository(db), memberRepo, packageRepo, subs, noopSink{})
	handler := checkin.NewHandler(service, memberRepo)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/check-ins", handler.Create)
	return router
}

func postCheckIn(t *testing.T, router *gin.Engine, memberID string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]string{"member_id": memberID})
	req, _ := http.NewRequest("POST", "/check-ins", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCheckInAllowedThenDuplicate_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()
	cleanDatabase(t, db)

	memberID := createTestMember(t, db, "Checkin Member", nil)
	packageID := createTestPackage(t, db, "Monthly", 30)
	today := time.Now()
	createActiveSubscription(t, db, memberID, packageID, today.AddDate(0, 0, -5), today.AddDate(0, 0, 25))

	router := newCheckInRouter(db)

	w := postCheckIn(t, router, memberID.String())
	require.Equal(t, http.StatusCreated, w.Code)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Equal(t, true, result["allowed"])

	// Same member, same day: rejected without a second row.
	w = postCheckIn(t, router, memberID.String())
	require.Equal(t, http.StatusConflict, w.Code)

	var count int
	require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM check_ins WHERE member_id = $1", memberID))
	require.Equal(t, 1, count)
}

func TestCheckInDeniedWithoutSubscription_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()
	cleanDatabase(t, db)

	memberID := createTestMember(t, db, "No Sub Member", nil)

	router := newCheckInRouter(db)

	w := postCheckIn(t, router, memberID.String())
	require.Equal(t, http.StatusForbidden, w.Code)

	// The denial itself is recorded.
	var status string
	require.NoError(t, db.Get(&status, "SELECT check_in_status FROM check_ins WHERE member_id = $1", memberID))
	require.Equal(t, "denied", status)
}

func TestCheckInExpiresStaleSubscription_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()
	cleanDatabase(t, db)

	memberID := createTestMember(t, db, "Expired Member", nil)
	packageID := createTestPackage(t, db, "Monthly", 30)
	today := time.Now()
	subID := createActiveSubscription(t, db, memberID, packageID, today.AddDate(0, 0, -40), today.AddDate(0, 0, -10))

	router := newCheckInRouter(db)

	w := postCheckIn(t, router, memberID.String())
	require.Equal(t, http.StatusForbidden, w.Code)

	// The gate flips the stale row to expired as a side effect.
	var status string
	require.NoError(t, db.Get(&status, "SELECT status FROM subscriptions WHERE id = $1", subID))
	require.Equal(t, "expired", status)

	// The denial row names no subscription: nothing admitted the member.
	var withRef int
	require.NoError(t, db.Get(&withRef,
		"SELECT COUNT(*) FROM check_ins WHERE member_id = $1 AND subscription_id IS NOT NULL", memberID))
	require.Equal(t, 0, withRef)
}
