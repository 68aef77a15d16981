package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/greekmarket/marketplace-backend/db"
	"github.com/greekmarket/marketplace-backend/notifications/smtp"
	"github.com/greekmarket/marketplace-backend/payments"
	"github.com/greekmarket/marketplace-backend/test"
)

const (
	testSecret = "super-secret"
	testPass   = "password123"
	testHost   = "0.0.0.0"
	testPort   = 7788

	testStripeKey     = "sk_test_key"
	testWebhookSecret = "whsec_test_secret"
)

// testDB is the MongoDB storage for the tests. Make it global so it can be
// accessed by the tests directly.
var testDB *db.MongoStorage

// testMailService is the test mail service for the tests. Make it global so it
// can be accessed by the tests directly.
var testMailService *smtp.Email

// testURL helper function returns the full URL for the given path using the
// test host and port.
func testURL(path string) string {
	return fmt.Sprintf("http://%s:%d%s", testHost, testPort, path)
}

// mustMarshal helper function marshalls the input interface into a byte slice.
// It panics if the marshalling fails.
func mustMarshal(i any) []byte {
	b, err := json.Marshal(i)
	if err != nil {
		panic(err)
	}
	return b
}

// pingAPI helper function pings the API endpoint and retries the request
// if it fails until the retries limit is reached. It returns an error if the
// request fails or the status code is not 200 as many times as the retries
// limit.
func pingAPI(endpoint string, retries int) error {
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	var pingErr error
	for i := 0; i < retries; i++ {
		var resp *http.Response
		if resp, pingErr = http.DefaultClient.Do(req); pingErr == nil {
			if resp.StatusCode == http.StatusOK {
				return nil
			}
			pingErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
		time.Sleep(time.Second)
	}
	return pingErr
}

// doRequest helper function performs a request against the test API server,
// attaching the JWT token when given, and returns the status code and body.
func doRequest(t *testing.T, method, path, token string, body []byte) (int, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, testURL(path), bytes.NewReader(body))
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return resp.StatusCode, data
}

// registerParty helper function registers a new party and returns its id.
func registerParty(t *testing.T, info *PartyInfo) string {
	t.Helper()
	status, body := doRequest(t, http.MethodPost, partiesEndpoint, "", mustMarshal(info))
	if status != http.StatusOK {
		t.Fatalf("failed to register party %s: status %d, body %s", info.Email, status, body)
	}
	created := &CreatedResponse{}
	if err := json.Unmarshal(body, created); err != nil {
		t.Fatalf("failed to decode register response: %v", err)
	}
	return created.ID
}

// loginParty helper function logs a party in and returns its JWT token.
func loginParty(t *testing.T, email, password string) string {
	t.Helper()
	status, body := doRequest(t, http.MethodPost, authLoginEndpoint, "",
		mustMarshal(&PartyInfo{Email: email, Password: password}))
	if status != http.StatusOK {
		t.Fatalf("failed to login %s: status %d, body %s", email, status, body)
	}
	login := &LoginResponse{}
	if err := json.Unmarshal(body, login); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	return login.Token
}

// TestMain function starts the MongoDB container and the API server before
// running the tests. The payments service runs with test credentials; no
// request in this suite reaches the real provider.
func TestMain(m *testing.M) {
	ctx := context.Background()
	// start a MongoDB container for testing
	dbContainer, err := test.StartMongoContainer(ctx)
	if err != nil {
		panic(err)
	}
	// ensure the container is stopped when the test finishes
	defer func() { _ = dbContainer.Terminate(ctx) }()
	// get the MongoDB connection string
	mongoURI, err := dbContainer.ConnectionString(ctx)
	if err != nil {
		panic(err)
	}
	// create a new MongoDB connection with the test database
	if testDB, err = db.New(mongoURI, test.RandomDatabaseName()); err != nil {
		panic(err)
	}
	defer testDB.Close()
	// create the payments service with test credentials
	paymentsConfig, err := payments.NewConfig(testStripeKey, testWebhookSecret)
	if err != nil {
		panic(err)
	}
	paymentsService, err := payments.NewService(paymentsConfig, testDB)
	if err != nil {
		panic(err)
	}
	// start the test mail server
	testMailServer, err := test.StartMailService(ctx)
	if err != nil {
		panic(err)
	}
	defer func() { _ = testMailServer.Terminate(ctx) }()
	// get the host, the SMTP port and the API port
	mailHost, err := testMailServer.Host(ctx)
	if err != nil {
		panic(err)
	}
	smtpPort, err := testMailServer.MappedPort(ctx, test.MailSMTPPort)
	if err != nil {
		panic(err)
	}
	apiPort, err := testMailServer.MappedPort(ctx, test.MailAPIPort)
	if err != nil {
		panic(err)
	}
	// create the test mail service
	testMailService = new(smtp.Email)
	if err := testMailService.New(&smtp.Config{
		FromName:    "GreekMarket",
		FromAddress: "orders@greekmarket.test",
		SMTPServer:  mailHost,
		SMTPPort:    smtpPort.Int(),
		TestAPIPort: apiPort.Int(),
	}); err != nil {
		panic(err)
	}
	paymentsService.SetNotificationServices(testMailService, nil)
	// start the API
	New(&Config{
		Host:        testHost,
		Port:        testPort,
		Secret:      testSecret,
		DB:          testDB,
		Payments:    paymentsService,
		MailService: testMailService,
	}).Start()
	// wait for the API to start
	if err := pingAPI(testURL("/ping"), 5); err != nil {
		panic(err)
	}
	// run the tests
	os.Exit(m.Run())
}
