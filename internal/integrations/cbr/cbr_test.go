package cbr

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const keyRateResponse = `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://www.w3.org/2003/05/soap-envelope">
  <soap:Body>
    <KeyRateResponse xmlns="http://web.cbr.ru/">
      <KeyRateResult>
        <diffgr:diffgram xmlns:diffgr="urn:schemas-microsoft-com:xml-diffgram-v1">
          <KeyRate xmlns="">
            <KR diffgr:id="KR1"><DT>2024-07-29T00:00:00+03:00</DT><Rate>18.00</Rate></KR>
            <KR diffgr:id="KR2"><DT>2024-07-26T00:00:00+03:00</DT><Rate>16.00</Rate></KR>
          </KeyRate>
        </diffgr:diffgram>
      </KeyRateResult>
    </KeyRateResponse>
  </soap:Body>
</soap:Envelope>`

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestClient_KeyRate(t *testing.T) {
	var gotAction, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAction = r.Header.Get("SOAPAction")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Write([]byte(keyRateResponse))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, quietLogger())
	c.now = func() time.Time { return time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC) }

	rate, err := c.KeyRate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 18.0, rate)
	assert.Equal(t, "http://web.cbr.ru/KeyRate", gotAction)
	assert.Contains(t, gotBody, "<fromDate>2024-07-02</fromDate>")
	assert.Contains(t, gotBody, "<ToDate>2024-08-01</ToDate>")
}

func TestClient_KeyRateUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, quietLogger()).KeyRate(context.Background())
	assert.ErrorContains(t, err, "unexpected status code: 503")
}

func TestParseKeyRate_Errors(t *testing.T) {
	_, err := parseKeyRate([]byte("not xml <"))
	assert.Error(t, err)

	_, err = parseKeyRate([]byte(`<root><diffgram><KeyRate></KeyRate></diffgram></root>`))
	assert.ErrorContains(t, err, "no key rate data")

	_, err = parseKeyRate([]byte(`<root><diffgram><KeyRate><KR><Rate>n/a</Rate></KR></KeyRate></diffgram></root>`))
	assert.ErrorContains(t, err, "failed to parse rate")
}
