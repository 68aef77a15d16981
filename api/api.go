// Package api provides the HTTP API for the GreekMarket backend.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
	"go.vocdoni.io/dvote/log"

	"github.com/greekmarket/marketplace-backend/db"
	"github.com/greekmarket/marketplace-backend/notifications"
	"github.com/greekmarket/marketplace-backend/objectstorage"
	"github.com/greekmarket/marketplace-backend/payments"
)

const (
	jwtExpiration = 360 * time.Hour // 15 days
	passwordSalt  = "greekmarket24" // salt for password hashing
)

type Config struct {
	Host          string
	Port          int
	Secret        string
	DB            *db.MongoStorage
	Payments      *payments.Service
	ObjectStorage *objectstorage.Client
	MailService   notifications.NotificationService
	SMSService    notifications.NotificationService
	WebAppURL     string
	ServerURL     string
}

// API type represents the API HTTP server with JWT authentication capabilities.
type API struct {
	db            *db.MongoStorage
	auth          *jwtauth.JWTAuth
	host          string
	port          int
	router        *chi.Mux
	payments      *payments.Service
	objectStorage *objectstorage.Client
	mail          notifications.NotificationService
	sms           notifications.NotificationService
	secret        string
	webAppURL     string
	serverURL     string
}

// New creates a new API HTTP server. It does not start the server. Use Start() for that.
func New(conf *Config) *API {
	if conf == nil {
		return nil
	}
	// Set the ServerURL for the object storage client
	if conf.ObjectStorage != nil {
		conf.ObjectStorage.ServerURL = conf.ServerURL
	}

	return &API{
		db:            conf.DB,
		auth:          jwtauth.New("HS256", []byte(conf.Secret), nil),
		host:          conf.Host,
		port:          conf.Port,
		payments:      conf.Payments,
		objectStorage: conf.ObjectStorage,
		mail:          conf.MailService,
		sms:           conf.SMSService,
		secret:        conf.Secret,
		webAppURL:     conf.WebAppURL,
		serverURL:     conf.ServerURL,
	}
}

// Start starts the API HTTP server (non blocking).
func (a *API) Start() {
	go func() {
		if err := http.ListenAndServe(fmt.Sprintf("%s:%d", a.host, a.port), a.initRouter()); err != nil {
			log.Fatalf("failed to start the API server: %v", err)
		}
	}()
}

// initRouter creates the router with all the routes and middleware.
func (a *API) initRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}).Handler)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Throttle(100))
	r.Use(middleware.ThrottleBacklog(5000, 40000, 60*time.Second))
	r.Use(middleware.Timeout(45 * time.Second))

	// protected routes
	r.Group(func(r chi.Router) {
		// seek, verify and validate JWT tokens
		r.Use(jwtauth.Verifier(a.auth))
		// handle valid JWT tokens
		r.Use(a.authenticator)
		// refresh the token
		log.Infow("new route", "method", "POST", "path", authRefreshTokenEndpoint)
		r.Post(authRefreshTokenEndpoint, a.refreshTokenHandler)
		// create a product
		log.Infow("new route", "method", "POST", "path", productsEndpoint)
		r.Post(productsEndpoint, a.createProductHandler)
		// create a listing
		log.Infow("new route", "method", "POST", "path", listingsEndpoint)
		r.Post(listingsEndpoint, a.createListingHandler)
		// get a provider onboarding link for the party
		log.Infow("new route", "method", "POST", "path", partyOnboardingEndpoint)
		r.Post(partyOnboardingEndpoint, a.partyOnboardingHandler)
		// upload an image to the object storage
		log.Infow("new route", "method", "POST", "path", objectStorageUploadEndpoint)
		r.Post(objectStorageUploadEndpoint, a.uploadImageHandler)
	})

	// Public routes
	r.Group(func(r chi.Router) {
		r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
			if _, err := w.Write([]byte(".")); err != nil {
				log.Warnw("failed to write ping response", "error", err)
			}
		})
		// login
		log.Infow("new route", "method", "POST", "path", authLoginEndpoint)
		r.Post(authLoginEndpoint, a.authLoginHandler)
		// register a party
		log.Infow("new route", "method", "POST", "path", partiesEndpoint)
		r.Post(partiesEndpoint, a.registerPartyHandler)
		// get party public information
		log.Infow("new route", "method", "GET", "path", partyEndpoint)
		r.Get(partyEndpoint, a.partyInfoHandler)
		// list unsold products
		log.Infow("new route", "method", "GET", "path", productsEndpoint)
		r.Get(productsEndpoint, a.productsHandler)
		// get product information
		log.Infow("new route", "method", "GET", "path", productEndpoint)
		r.Get(productEndpoint, a.productInfoHandler)
		// list unclaimed listings
		log.Infow("new route", "method", "GET", "path", listingsEndpoint)
		r.Get(listingsEndpoint, a.listingsHandler)
		// get listing information
		log.Infow("new route", "method", "GET", "path", listingEndpoint)
		r.Get(listingEndpoint, a.listingInfoHandler)
		// get the claim fee breakdown for a listing
		log.Infow("new route", "method", "GET", "path", listingQuoteEndpoint)
		r.Get(listingQuoteEndpoint, a.listingQuoteHandler)
		// create a direct-sale checkout session
		log.Infow("new route", "method", "POST", "path", checkoutProductEndpoint)
		r.Post(checkoutProductEndpoint, a.productCheckoutHandler)
		// create a steward-claim checkout session
		log.Infow("new route", "method", "POST", "path", checkoutClaimEndpoint)
		r.Post(checkoutClaimEndpoint, a.claimCheckoutHandler)
		// handle provider webhook
		log.Infow("new route", "method", "POST", "path", paymentsWebhookEndpoint)
		r.Post(paymentsWebhookEndpoint, a.paymentsWebhookHandler)
		// download an image from the object storage
		log.Infow("new route", "method", "GET", "path", objectStorageDownloadEndpoint)
		r.Get(objectStorageDownloadEndpoint, a.downloadImageHandler)
	})
	a.router = r
	return r
}
