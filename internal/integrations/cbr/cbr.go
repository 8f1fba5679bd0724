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

	"github.com/Dan9191/bank-analytics/internal/config"
	"github.com/Dan9191/bank-analytics/internal/logging"
	"github.com/Dan9191/bank-analytics/internal/models"
	"github.com/Dan9191/bank-analytics/internal/money"
	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"
)

const (
	soapNamespace = "http://www.w3.org/2003/05/soap-envelope"
	cbrNamespace  = "http://web.cbr.ru/"
)

// CBRClient handles integration with Central Bank of Russia
type CBRClient struct {
	url    string
	client *http.Client
	log    logrus.FieldLogger
	now    func() time.Time
}

// NewCBRClient initializes a new CBR client
func NewCBRClient(cfg *config.Config, log logrus.FieldLogger) *CBRClient {
	return &CBRClient{
		url: cfg.CBRURL,
		client: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		log: logging.Component(log, "cbr"),
		now: time.Now,
	}
}

type param struct {
	name, value string
}

// buildSOAPRequest creates a SOAP 1.2 envelope calling method with params
func buildSOAPRequest(method string, params ...param) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)

	envelope := doc.CreateElement("soap12:Envelope")
	envelope.CreateAttr("xmlns:soap12", soapNamespace)
	body := envelope.CreateElement("soap12:Body")
	call := body.CreateElement(method)
	call.CreateAttr("xmlns", cbrNamespace)
	for _, p := range params {
		call.CreateElement(p.name).SetText(p.value)
	}

	return doc.WriteToBytes()
}

// sendRequest sends SOAP request to CBR
func (c *CBRClient) sendRequest(ctx context.Context, method string, soapRequest []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(soapRequest))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/soap+xml; charset=utf-8")
	req.Header.Set("SOAPAction", cbrNamespace+method)

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

	c.log.Debugf("CBR %s response: %s", method, string(body))

	return body, nil
}

func (c *CBRClient) call(ctx context.Context, method string, params ...param) (*etree.Document, error) {
	soapRequest, err := buildSOAPRequest(method, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", method, err)
	}

	body, err := c.sendRequest(ctx, method, soapRequest)
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}
	return doc, nil
}

// parseKeyRate extracts the latest key rate
func parseKeyRate(doc *etree.Document) (float64, error) {
	krElements := doc.FindElements("//diffgram/KeyRate/KR")
	if len(krElements) == 0 {
		return 0, fmt.Errorf("no key rate data found in XML")
	}

	// the service lists the newest value first
	rateElement := krElements[0].FindElement("./Rate")
	if rateElement == nil {
		return 0, fmt.Errorf("rate element not found in XML")
	}

	rate, err := parseDecimal(rateElement.Text())
	if err != nil {
		return 0, fmt.Errorf("failed to parse rate: %w", err)
	}
	return rate, nil
}

// KeyRate retrieves the current key rate of the Bank of Russia
func (c *CBRClient) KeyRate(ctx context.Context) (float64, error) {
	now := c.now()
	doc, err := c.call(ctx, "KeyRate",
		param{"fromDate", now.AddDate(0, 0, -30).Format("2006-01-02")},
		param{"ToDate", now.Format("2006-01-02")},
	)
	if err != nil {
		return 0, err
	}

	rate, err := parseKeyRate(doc)
	if err != nil {
		return 0, err
	}

	c.log.Infof("Retrieved key rate: %.2f%%", rate)
	return rate, nil
}

// parseCurs maps currency letter codes to the rouble price of one unit
func parseCurs(doc *etree.Document) (map[string]float64, error) {
	entries := doc.FindElements("//ValuteCursOnDate")
	if len(entries) == 0 {
		return nil, fmt.Errorf("no currency data found in XML")
	}

	rates := make(map[string]float64, len(entries))
	for _, e := range entries {
		code := e.FindElement("./VchCode")
		curs := e.FindElement("./Vcurs")
		if code == nil || curs == nil {
			continue
		}

		value, err := parseDecimal(curs.Text())
		if err != nil {
			return nil, fmt.Errorf("failed to parse rate of %s: %w", code.Text(), err)
		}

		nominal := 1.0
		if nom := e.FindElement("./Vnom"); nom != nil {
			if n, err := parseDecimal(nom.Text()); err == nil && n > 0 {
				nominal = n
			}
		}

		rates[strings.ToUpper(strings.TrimSpace(code.Text()))] = value / nominal
	}
	return rates, nil
}

// Rates returns today's official rates of currencies. Currencies the bank
// does not quote are skipped.
func (c *CBRClient) Rates(ctx context.Context, currencies []string) ([]models.CurrencyRate, error) {
	doc, err := c.call(ctx, "GetCursOnDateXML",
		param{"On_date", c.now().Format("2006-01-02T00:00:00")},
	)
	if err != nil {
		return nil, err
	}

	table, err := parseCurs(doc)
	if err != nil {
		return nil, err
	}

	rates := make([]models.CurrencyRate, 0, len(currencies))
	for _, cur := range currencies {
		rate, ok := table[strings.ToUpper(cur)]
		if !ok {
			c.log.WithField("currency", cur).Warn("currency is not quoted by CBR")
			continue
		}
		rates = append(rates, models.CurrencyRate{Currency: cur, Rate: money.Round2(rate)})
	}
	return rates, nil
}

func parseDecimal(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
}
