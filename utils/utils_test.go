package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestDaysBetweenIgnoresClockAndZone(t *testing.T) {
	seoul := time.FixedZone("KST", 9*3600)
	start := time.Date(2024, 3, 9, 23, 30, 0, 0, seoul)
	end := time.Date(2024, 3, 10, 0, 15, 0, 0, time.UTC)
	require.Equal(t, 1, DaysBetween(start, end))
	require.Equal(t, -1, DaysBetween(end, start))
}

func TestCalendarDayKeepsLocalDate(t *testing.T) {
	seoul := time.FixedZone("KST", 9*3600)
	got := CalendarDay(time.Date(2024, 3, 10, 1, 0, 0, 0, seoul))
	require.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), got)
}

func TestParseAndFormatDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	require.Equal(t, time.UTC, d.Location())
	require.Equal(t, "2024-02-29", FormatDate(d))

	_, err = ParseDate("2023-02-29")
	require.Error(t, err)
	_, err = ParseDate("29/02/2024")
	require.Error(t, err)
}

func TestRelativeDayLabel(t *testing.T) {
	require.Equal(t, "Today", RelativeDayLabel(0))
	require.Equal(t, "Tomorrow", RelativeDayLabel(1))
	require.Equal(t, "Yesterday", RelativeDayLabel(-1))
	require.Equal(t, "5 days", RelativeDayLabel(5))
	require.Equal(t, "12 days ago", RelativeDayLabel(-12))
}

func TestValidatePhone(t *testing.T) {
	require.True(t, ValidatePhone("+82 10-1234-5678"))
	require.True(t, ValidatePhone("(02) 123.4567"))
	require.False(t, ValidatePhone("123"))
	require.False(t, ValidatePhone("phone"))
	require.Equal(t, "+821012345678", NormalizePhone(" +82 10-1234-5678 "))
}

func TestValidateURL(t *testing.T) {
	require.True(t, ValidateURL("https://booking.example.com/x"))
	require.False(t, ValidateURL("mailto:a@b.c"))
	require.False(t, ValidateURL("https://"))
}

func TestRespondWithError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	RespondWithError(c, http.StatusBadRequest, "bad")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.JSONEq(t, `{"error":"bad"}`, w.Body.String())
	require.True(t, c.IsAborted())
}
