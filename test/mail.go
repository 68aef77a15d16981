package test

import (
	"context"
	"fmt"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// MailSMTPPort is the SMTP port exposed by the mail test container.
	MailSMTPPort nat.Port = "1025"
	// MailAPIPort is the inbox inspection API port exposed by the mail test
	// container.
	MailAPIPort nat.Port = "8025"
)

// StartMailService starts a MailHog container used to assert on outgoing
// email in tests.
func StartMailService(ctx context.Context) (testcontainers.Container, error) {
	return testcontainers.GenericContainer(ctx,
		testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image: "mailhog/mailhog",
				ExposedPorts: []string{
					fmt.Sprintf("%s/tcp", MailSMTPPort),
					fmt.Sprintf("%s/tcp", MailAPIPort),
				},
				WaitingFor: wait.ForListeningPort(MailSMTPPort),
			},
			Started: true,
		})
}
