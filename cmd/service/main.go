package main

import (
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.vocdoni.io/dvote/log"

	"github.com/greekmarket/marketplace-backend/api"
	"github.com/greekmarket/marketplace-backend/db"
	"github.com/greekmarket/marketplace-backend/notifications"
	"github.com/greekmarket/marketplace-backend/notifications/smtp"
	"github.com/greekmarket/marketplace-backend/notifications/twilio"
	"github.com/greekmarket/marketplace-backend/objectstorage"
	"github.com/greekmarket/marketplace-backend/payments"
)

func main() {
	log.Init("debug", "stdout", nil)
	// define flags
	flag.StringP("host", "h", "0.0.0.0", "listen address")
	flag.IntP("port", "p", 8080, "listen port")
	flag.StringP("secret", "s", "", "API secret")
	flag.String("mongo-url", "", "The URL of the MongoDB server")
	flag.String("mongo-db", "greekmarket", "The name of the MongoDB database")
	flag.String("stripe-api-secret", "", "Stripe secret API key")
	flag.String("stripe-webhook-secret", "", "Stripe webhook signing secret")
	flag.String("web-url", "https://app.greekmarket.dev", "The URL of the web application")
	flag.String("server-url", "http://localhost:8080", "The public URL of this server")
	flag.String("smtp-server", "", "SMTP server")
	flag.Int("smtp-port", 587, "SMTP port")
	flag.String("smtp-username", "", "SMTP username")
	flag.String("smtp-password", "", "SMTP password")
	flag.String("email-from-address", "", "Email service from address")
	flag.String("email-from-name", "GreekMarket", "Email service from name")
	flag.String("twilio-account-sid", "", "Twilio account SID")
	flag.String("twilio-auth-token", "", "Twilio auth token")
	flag.String("twilio-from-number", "", "Twilio sender number")
	// parse flags
	flag.Parse()
	// initialize Viper
	viper.SetEnvPrefix("GREEKMARKET")
	if err := viper.BindPFlags(flag.CommandLine); err != nil {
		panic(err)
	}
	viper.AutomaticEnv()
	// read the configuration
	host := viper.GetString("host")
	port := viper.GetInt("port")
	secret := viper.GetString("secret")
	if secret == "" {
		log.Fatal("secret is required")
	}
	mongoURL := viper.GetString("mongo-url")
	mongoDB := viper.GetString("mongo-db")
	stripeAPISecret := viper.GetString("stripe-api-secret")
	stripeWebhookSecret := viper.GetString("stripe-webhook-secret")
	webAppURL := viper.GetString("web-url")
	serverURL := viper.GetString("server-url")

	// initialize the MongoDB database
	database, err := db.New(mongoURL, mongoDB)
	if err != nil {
		log.Fatalf("could not create the MongoDB database: %v", err)
	}
	defer database.Close()

	// initialize the payments service, validating the provider key eagerly so
	// a misconfigured deployment fails at startup instead of at first charge
	paymentsConfig, err := payments.NewConfig(stripeAPISecret, stripeWebhookSecret)
	if err != nil {
		log.Fatalf("invalid payments configuration: %v", err)
	}
	paymentsService, err := payments.NewService(paymentsConfig, database)
	if err != nil {
		log.Fatalf("could not create the payments service: %v", err)
	}

	// initialize the object storage
	objectStorage, err := objectstorage.New(&objectstorage.Config{
		DB:        database,
		ServerURL: serverURL,
	})
	if err != nil {
		log.Fatalf("could not create the object storage: %v", err)
	}

	// create the email service if the configuration is provided
	var mailService notifications.NotificationService
	if smtpServer := viper.GetString("smtp-server"); smtpServer != "" {
		mailService = new(smtp.Email)
		if err := mailService.New(&smtp.Config{
			FromName:     viper.GetString("email-from-name"),
			FromAddress:  viper.GetString("email-from-address"),
			SMTPUsername: viper.GetString("smtp-username"),
			SMTPPassword: viper.GetString("smtp-password"),
			SMTPServer:   smtpServer,
			SMTPPort:     viper.GetInt("smtp-port"),
		}); err != nil {
			log.Fatalf("could not create the email service: %v", err)
		}
		log.Infow("email service created", "server", smtpServer)
	}
	// create the SMS service if the configuration is provided
	var smsService notifications.NotificationService
	if twilioSid := viper.GetString("twilio-account-sid"); twilioSid != "" {
		smsService = new(twilio.TwilioSMS)
		if err := smsService.New(&twilio.TwilioConfig{
			AccountSid: twilioSid,
			AuthToken:  viper.GetString("twilio-auth-token"),
			FromNumber: viper.GetString("twilio-from-number"),
		}); err != nil {
			log.Fatalf("could not create the SMS service: %v", err)
		}
		log.Infow("SMS service created")
	}
	paymentsService.SetNotificationServices(mailService, smsService)

	// create the local API server
	api.New(&api.Config{
		Host:          host,
		Port:          port,
		Secret:        secret,
		DB:            database,
		Payments:      paymentsService,
		ObjectStorage: objectStorage,
		MailService:   mailService,
		SMSService:    smsService,
		WebAppURL:     webAppURL,
		ServerURL:     serverURL,
	}).Start()
	// wait forever, as the server is running in a goroutine
	log.Infow("server started", "host", host, "port", port)
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
}
