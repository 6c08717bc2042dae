package cbr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"
)

// keyRateWindow is how far back the KeyRate request looks; the service
// returns one entry per change date, newest first.
const keyRateWindow = 30 * 24 * time.Hour

// Client queries the Central Bank of Russia DailyInfo web service
type Client struct {
	url    string
	client *http.Client
	log    *logrus.Logger
	now    func() time.Time
}

// NewClient initializes a new CBR client for the DailyInfo endpoint at url
func NewClient(url string, log *logrus.Logger) *Client {
	return &Client{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
		now: time.Now,
	}
}

// buildKeyRateRequest creates a SOAP 1.2 envelope for the KeyRate method
func (c *Client) buildKeyRateRequest() string {
	to := c.now()
	from := to.Add(-keyRateWindow)
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<soap12:Envelope xmlns:soap12="http://www.w3.org/2003/05/soap-envelope">
	<soap12:Body>
		<KeyRate xmlns="http://web.cbr.ru/">
			<fromDate>%s</fromDate>
			<ToDate>%s</ToDate>
		</KeyRate>
	</soap12:Body>
</soap12:Envelope>`, from.Format("2006-01-02"), to.Format("2006-01-02"))
}

func (c *Client) send(ctx context.Context, action, envelope string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBufferString(envelope))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/soap+xml; charset=utf-8")
	req.Header.Set("SOAPAction", "http://web.cbr.ru/"+action)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	c.log.Debugf("CBR %s response: %s", action, string(body))
	return body, nil
}

// parseKeyRate extracts the newest key rate from a KeyRate response
func parseKeyRate(raw []byte) (float64, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return 0, fmt.Errorf("failed to parse XML: %w", err)
	}

	entries := doc.FindElements("//diffgram/KeyRate/KR")
	if len(entries) == 0 {
		return 0, fmt.Errorf("no key rate data found in XML")
	}
	rateElement := entries[0].FindElement("./Rate")
	if rateElement == nil {
		return 0, fmt.Errorf("rate element not found in XML")
	}

	rate, err := strconv.ParseFloat(strings.TrimSpace(rateElement.Text()), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse rate: %w", err)
	}
	return rate, nil
}

// KeyRate retrieves the current Bank of Russia key rate, in percent
func (c *Client) KeyRate(ctx context.Context) (float64, error) {
	body, err := c.send(ctx, "KeyRate", c.buildKeyRateRequest())
	if err != nil {
		return 0, err
	}
	rate, err := parseKeyRate(body)
	if err != nil {
		return 0, err
	}
	c.log.Infof("Retrieved key rate: %.2f%%", rate)
	return rate, nil
}
