package api

const (
	// POST /auth/login to login and get a JWT token
	authLoginEndpoint = "/auth/login"
	// POST /auth/refresh to refresh the JWT token
	authRefreshTokenEndpoint = "/auth/refresh"

	// POST /parties to register a new party
	partiesEndpoint = "/parties"
	// GET /parties/{partyID} to get party public information
	partyEndpoint = "/parties/{partyID}"
	// POST /parties/{partyID}/onboarding to get a provider onboarding link
	partyOnboardingEndpoint = "/parties/{partyID}/onboarding"

	// POST /products to create a product, GET /products to list unsold products
	productsEndpoint = "/products"
	// GET /products/{productID} to get product information
	productEndpoint = "/products/{productID}"

	// POST /listings to create a listing, GET /listings to list unclaimed listings
	listingsEndpoint = "/listings"
	// GET /listings/{listingID} to get listing information
	listingEndpoint = "/listings/{listingID}"
	// GET /listings/{listingID}/quote to get the claim fee breakdown
	listingQuoteEndpoint = "/listings/{listingID}/quote"

	// POST /checkout/product to create a direct-sale checkout session
	checkoutProductEndpoint = "/checkout/product"
	// POST /checkout/claim to create a steward-claim checkout session
	checkoutClaimEndpoint = "/checkout/claim"

	// POST /payments/webhook to receive provider webhook events
	paymentsWebhookEndpoint = "/payments/webhook"

	// POST /storage to upload an image
	objectStorageUploadEndpoint = "/storage"
	// GET /storage/{objectID} to download an image
	objectStorageDownloadEndpoint = "/storage/{objectID}"
)
