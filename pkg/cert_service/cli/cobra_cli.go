package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/certlane/certlane/pkg/cert_service/api"
	"github.com/certlane/certlane/pkg/cert_service/lifecycle"
	"github.com/certlane/certlane/pkg/cert_service/model"
	"github.com/certlane/certlane/pkg/config"
	"github.com/certlane/certlane/pkg/util"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const cobraAppName string = "cert-service"

// CobraApp is the main application structure for the Cobra-based CLI
type CobraApp struct {
	rootCmd *cobra.Command
}

// NewCobraApp creates a new instance of the Cobra CLI application
func NewCobraApp() *CobraApp {
	app := &CobraApp{}
	app.rootCmd = &cobra.Command{
		Use:   cobraAppName,
		Short: "Certificate lifecycle service",
		Long:  `Certificate Service orchestrates certificate issuance, renewal, revocation and access bindings against the corporate certificate manager.`,
	}

	// Add server command
	serverCmd := &cobra.Command{
		Use:   "server",
		Short: "Run the certificate service",
		RunE:  app.runServer,
	}
	serverCmd.Flags().StringP("config", "c", "", "Path to the configuration file")
	serverCmd.MarkFlagRequired("config")
	serverCmd.MarkFlagFilename("config")
	app.rootCmd.AddCommand(serverCmd)

	// Add migrate command
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate the database",
		RunE:  app.runMigrate,
	}
	migrateCmd.Flags().StringP("config", "c", "", "Path to the configuration file")
	migrateCmd.Flags().StringP("path", "p", "migrations", "Path to the migration files")
	migrateCmd.MarkFlagRequired("config")
	migrateCmd.MarkFlagFilename("config")
	migrateCmd.MarkFlagDirname("path")
	app.rootCmd.AddCommand(migrateCmd)

	// Add client command
	clientCmd := &cobra.Command{
		Use:   "client",
		Short: "Client commands for interacting with the certificate service",
	}
	clientCmd.PersistentFlags().StringP("server", "s", "", "Server address")
	clientCmd.PersistentFlags().StringP("requester", "r", "", "Requester name")
	clientCmd.PersistentFlags().StringP("email", "e", "", "Requester email")
	clientCmd.PersistentFlags().Bool("admin", false, "Act as certificate administrator")
	clientCmd.PersistentFlags().StringP("token", "t", "", "Secrets backend token")
	clientCmd.MarkPersistentFlagRequired("server")
	app.rootCmd.AddCommand(clientCmd)

	// Add sslcert commands
	certCmd := &cobra.Command{
		Use:   "sslcert",
		Short: "Manage SSL certificates",
	}
	clientCmd.AddCommand(certCmd)

	certIssueCmd := &cobra.Command{
		Use:   "issue [name]",
		Short: "Issue a certificate",
		Args:  cobra.ExactArgs(1),
		RunE:  app.runCertIssue,
	}
	certIssueCmd.Flags().String("app", "", "Application name")
	certIssueCmd.Flags().String("cert-type", "internal", "Certificate type (internal or external)")
	certIssueCmd.Flags().String("owner-email", "", "Owner email")
	certIssueCmd.Flags().String("target-system", "", "Target system name")
	certIssueCmd.Flags().String("target-address", "", "Target system address")
	certIssueCmd.Flags().String("service", "", "Target system service name")
	certIssueCmd.Flags().String("service-hostname", "", "Target system service hostname")
	certIssueCmd.Flags().Int("service-port", 443, "Target system service port")
	certIssueCmd.MarkFlagRequired("app")
	certIssueCmd.MarkFlagRequired("owner-email")
	certIssueCmd.MarkFlagRequired("target-system")
	certIssueCmd.MarkFlagRequired("target-address")
	certIssueCmd.MarkFlagRequired("service")
	certIssueCmd.MarkFlagRequired("service-hostname")
	certCmd.AddCommand(certIssueCmd)

	certRenewCmd := &cobra.Command{
		Use:   "renew [name]",
		Short: "Renew a certificate",
		Args:  cobra.ExactArgs(1),
		RunE:  app.runCertRenew,
	}
	certCmd.AddCommand(certRenewCmd)

	certRevokeCmd := &cobra.Command{
		Use:   "revoke [name]",
		Short: "Revoke a certificate",
		Args:  cobra.ExactArgs(1),
		RunE:  app.runCertRevoke,
	}
	certRevokeCmd.Flags().String("reason", "", "Revocation reason")
	certRevokeCmd.MarkFlagRequired("reason")
	certCmd.AddCommand(certRevokeCmd)

	certListCmd := &cobra.Command{
		Use:   "list",
		Short: "List certificates",
		RunE:  app.runCertList,
	}
	certCmd.AddCommand(certListCmd)

	certManagedCmd := &cobra.Command{
		Use:   "managed",
		Short: "List certificates managed by this service",
		RunE:  app.runCertManaged,
	}
	certCmd.AddCommand(certManagedCmd)

	certDownloadCmd := &cobra.Command{
		Use:   "download [name]",
		Short: "Download a certificate",
		Args:  cobra.ExactArgs(1),
		RunE:  app.runCertDownload,
	}
	certDownloadCmd.Flags().String("format", "", "Download format (pembundle, pkcs12pem, pem, der)")
	certDownloadCmd.Flags().Bool("private-key", false, "Include the private key")
	certDownloadCmd.Flags().StringP("output", "o", "", "Output file")
	certCmd.AddCommand(certDownloadCmd)

	// Add access binding commands
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user access bindings",
	}
	certCmd.AddCommand(userCmd)

	userAddCmd := &cobra.Command{
		Use:   "add [cert] [user]",
		Short: "Grant a user access to a certificate",
		Args:  cobra.ExactArgs(2),
		RunE:  app.runUserAdd,
	}
	userAddCmd.Flags().String("level", "read", "Access level (read, write, deny)")
	userCmd.AddCommand(userAddCmd)

	userRemoveCmd := &cobra.Command{
		Use:   "remove [cert] [user]",
		Short: "Remove a user binding from a certificate",
		Args:  cobra.ExactArgs(2),
		RunE:  app.runUserRemove,
	}
	userCmd.AddCommand(userRemoveCmd)

	groupCmd := &cobra.Command{
		Use:   "group",
		Short: "Manage group access bindings",
	}
	certCmd.AddCommand(groupCmd)

	groupAddCmd := &cobra.Command{
		Use:   "add [cert] [group]",
		Short: "Grant a group access to a certificate",
		Args:  cobra.ExactArgs(2),
		RunE:  app.runGroupAdd,
	}
	groupAddCmd.Flags().String("level", "read", "Access level (read, write, deny)")
	groupCmd.AddCommand(groupAddCmd)

	groupRemoveCmd := &cobra.Command{
		Use:   "remove [cert] [group]",
		Short: "Remove a group binding from a certificate",
		Args:  cobra.ExactArgs(2),
		RunE:  app.runGroupRemove,
	}
	groupCmd.AddCommand(groupRemoveCmd)

	approleCmd := &cobra.Command{
		Use:   "approle [cert] [role]",
		Short: "Associate an approle with a certificate",
		Args:  cobra.ExactArgs(2),
		RunE:  app.runApproleAssociate,
	}
	approleCmd.Flags().String("level", "read", "Access level (read, write, deny)")
	certCmd.AddCommand(approleCmd)

	// Add target system commands
	targetSystemCmd := &cobra.Command{
		Use:   "targetsystem",
		Short: "Inspect target systems",
	}
	clientCmd.AddCommand(targetSystemCmd)

	targetSystemListCmd := &cobra.Command{
		Use:   "list",
		Short: "List target systems",
		RunE:  app.runTargetSystemList,
	}
	targetSystemCmd.AddCommand(targetSystemListCmd)

	targetSystemServicesCmd := &cobra.Command{
		Use:   "services [id]",
		Short: "List services of a target system",
		Args:  cobra.ExactArgs(1),
		RunE:  app.runTargetSystemServices,
	}
	targetSystemCmd.AddCommand(targetSystemServicesCmd)

	auditCmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the lifecycle audit log",
	}
	clientCmd.AddCommand(auditCmd)

	auditListCmd := &cobra.Command{
		Use:   "list",
		Short: "List audit events",
		RunE:  app.runAuditList,
	}
	auditListCmd.Flags().String("cert", "", "Filter by certificate name")
	auditListCmd.Flags().Int("limit", 20, "Maximum number of events")
	auditListCmd.Flags().Int("offset", 0, "Number of events to skip")
	auditCmd.AddCommand(auditListCmd)

	return app
}

// Run executes the CLI application
func (app *CobraApp) Run() {
	if err := app.rootCmd.Execute(); err != nil {
		logrus.Errorf("failed to run command: %v", err)
		os.Exit(1)
	}
}

// Server command implementation
func (app *CobraApp) runServer(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg := api.RestServerConfig{}
	if err := config.FromFile(configPath, &cfg); err != nil {
		logrus.Errorf("failed to load config: %v", err)
		return err
	}

	restServer, err := api.NewRestServerWithConfig(cfg)
	if err != nil {
		logrus.Errorf("failed to create rest server: %v", err)
		return err
	}

	logrus.Info("starting cert service.")
	go func() {
		if err := restServer.Run(); err != nil {
			logrus.Errorf("failed to start cert service: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server......")
	restServer.Close(context.Background())
	return nil
}

// Migrate command implementation
func (app *CobraApp) runMigrate(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	migrationsPath, _ := cmd.Flags().GetString("path")

	cfg := api.RestServerConfig{}
	if err := config.FromFile(configPath, &cfg); err != nil {
		logrus.Errorf("failed to load config: %v", err)
		return err
	}

	ctx := context.Background()
	pool, err := util.NewPostgresDBPool(cfg.Database)
	if err != nil {
		logrus.Errorf("failed to connect to database: %v", err)
		return err
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migration (version TEXT PRIMARY KEY)`); err != nil {
		logrus.Errorf("failed to create schema_migration table: %v", err)
		return err
	}

	entries, err := os.ReadDir(migrationsPath)
	if err != nil {
		logrus.Errorf("failed to read migration files: %v", err)
		return err
	}

	versions := []string{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		versions = append(versions, entry.Name())
	}
	sort.Strings(versions)

	for _, version := range versions {
		applied := false
		if err := pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM schema_migration WHERE version = $1)`, version).Scan(&applied); err != nil {
			logrus.Errorf("failed to check migration %s: %v", version, err)
			return err
		}
		if applied {
			continue
		}

		script, err := os.ReadFile(filepath.Join(migrationsPath, version))
		if err != nil {
			logrus.Errorf("failed to read migration %s: %v", version, err)
			return err
		}
		if _, err := pool.Exec(ctx, string(script)); err != nil {
			logrus.Errorf("failed to apply migration %s: %v", version, err)
			return err
		}
		if _, err := pool.Exec(ctx, `INSERT INTO schema_migration (version) VALUES ($1)`, version); err != nil {
			logrus.Errorf("failed to record migration %s: %v", version, err)
			return err
		}
		logrus.Infof("applied migration %s", version)
	}

	return nil
}

func (app *CobraApp) clientFromFlags(cmd *cobra.Command) *RestClient {
	server, _ := cmd.Flags().GetString("server")
	requester, _ := cmd.Flags().GetString("requester")
	email, _ := cmd.Flags().GetString("email")
	admin, _ := cmd.Flags().GetBool("admin")
	token, _ := cmd.Flags().GetString("token")
	return NewRestClient(server, requester, email, admin, token)
}

// Certificate command implementations
func (app *CobraApp) runCertIssue(cmd *cobra.Command, args []string) error {
	appName, _ := cmd.Flags().GetString("app")
	certType, _ := cmd.Flags().GetString("cert-type")
	ownerEmail, _ := cmd.Flags().GetString("owner-email")
	targetSystem, _ := cmd.Flags().GetString("target-system")
	targetAddress, _ := cmd.Flags().GetString("target-address")
	service, _ := cmd.Flags().GetString("service")
	serviceHostname, _ := cmd.Flags().GetString("service-hostname")
	servicePort, _ := cmd.Flags().GetInt("service-port")

	client := app.clientFromFlags(cmd)
	req := lifecycle.IssueCertificateRequest{
		CertificateName: args[0],
		AppName:         appName,
		CertType:        model.CertType(certType),
		OwnerEmail:      ownerEmail,
		TargetSystem: lifecycle.TargetSystemSpec{
			Name:    targetSystem,
			Address: targetAddress,
		},
		TargetSystemService: lifecycle.TargetSystemServiceSpec{
			Name:     service,
			Hostname: serviceHostname,
			Port:     servicePort,
		},
	}

	envelope, err := client.IssueCert(req)
	if err != nil {
		logrus.Errorf("failed to issue certificate: %v", err)
		return err
	}

	printEnvelope(envelope)
	return nil
}

func (app *CobraApp) runCertRenew(cmd *cobra.Command, args []string) error {
	client := app.clientFromFlags(cmd)
	envelope, err := client.RenewCert(args[0])
	if err != nil {
		logrus.Errorf("failed to renew certificate: %v", err)
		return err
	}

	printEnvelope(envelope)
	return nil
}

func (app *CobraApp) runCertRevoke(cmd *cobra.Command, args []string) error {
	reason, _ := cmd.Flags().GetString("reason")

	client := app.clientFromFlags(cmd)
	envelope, err := client.RevokeCert(args[0], reason)
	if err != nil {
		logrus.Errorf("failed to revoke certificate: %v", err)
		return err
	}

	printEnvelope(envelope)
	return nil
}

func (app *CobraApp) runCertList(cmd *cobra.Command, args []string) error {
	client := app.clientFromFlags(cmd)
	certs, err := client.ListCerts()
	if err != nil {
		logrus.Errorf("failed to list certificates: %v", err)
		return err
	}

	pretty := bytes.Buffer{}
	json.Indent(&pretty, []byte(util.StructToJSON(certs)), "", "  ")
	fmt.Println(pretty.String())
	return nil
}

func (app *CobraApp) runCertManaged(cmd *cobra.Command, args []string) error {
	client := app.clientFromFlags(cmd)
	names, err := client.ListManagedCerts()
	if err != nil {
		logrus.Errorf("failed to list managed certificates: %v", err)
		return err
	}

	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func (app *CobraApp) runAuditList(cmd *cobra.Command, args []string) error {
	certificateName, _ := cmd.Flags().GetString("cert")
	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")

	client := app.clientFromFlags(cmd)
	result, err := client.ListAuditEvents(certificateName, limit, offset)
	if err != nil {
		logrus.Errorf("failed to list audit events: %v", err)
		return err
	}

	pretty := bytes.Buffer{}
	json.Indent(&pretty, []byte(util.StructToJSON(result)), "", "  ")
	fmt.Println(pretty.String())
	return nil
}

func (app *CobraApp) runCertDownload(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	includePrivateKey, _ := cmd.Flags().GetBool("private-key")
	output, _ := cmd.Flags().GetString("output")

	client := app.clientFromFlags(cmd)
	outFile, err := client.DownloadCert(args[0], format, includePrivateKey, output)
	if err != nil {
		logrus.Errorf("failed to download certificate: %v", err)
		return err
	}

	logrus.Infof("Certificate saved to %s", outFile)
	return nil
}

// Access binding command implementations
func (app *CobraApp) runUserAdd(cmd *cobra.Command, args []string) error {
	level, _ := cmd.Flags().GetString("level")

	client := app.clientFromFlags(cmd)
	envelope, err := client.AddUser(args[0], args[1], model.AccessLevel(level))
	if err != nil {
		logrus.Errorf("failed to add user: %v", err)
		return err
	}

	printEnvelope(envelope)
	return nil
}

func (app *CobraApp) runUserRemove(cmd *cobra.Command, args []string) error {
	client := app.clientFromFlags(cmd)
	envelope, err := client.RemoveUser(args[0], args[1])
	if err != nil {
		logrus.Errorf("failed to remove user: %v", err)
		return err
	}

	printEnvelope(envelope)
	return nil
}

func (app *CobraApp) runGroupAdd(cmd *cobra.Command, args []string) error {
	level, _ := cmd.Flags().GetString("level")

	client := app.clientFromFlags(cmd)
	envelope, err := client.AddGroup(args[0], args[1], model.AccessLevel(level))
	if err != nil {
		logrus.Errorf("failed to add group: %v", err)
		return err
	}

	printEnvelope(envelope)
	return nil
}

func (app *CobraApp) runGroupRemove(cmd *cobra.Command, args []string) error {
	client := app.clientFromFlags(cmd)
	envelope, err := client.RemoveGroup(args[0], args[1])
	if err != nil {
		logrus.Errorf("failed to remove group: %v", err)
		return err
	}

	printEnvelope(envelope)
	return nil
}

func (app *CobraApp) runApproleAssociate(cmd *cobra.Command, args []string) error {
	level, _ := cmd.Flags().GetString("level")

	client := app.clientFromFlags(cmd)
	envelope, err := client.AssociateApprole(args[0], args[1], model.AccessLevel(level))
	if err != nil {
		logrus.Errorf("failed to associate approle: %v", err)
		return err
	}

	printEnvelope(envelope)
	return nil
}

// Target system command implementations
func (app *CobraApp) runTargetSystemList(cmd *cobra.Command, args []string) error {
	client := app.clientFromFlags(cmd)
	systems, err := client.ListTargetSystems()
	if err != nil {
		logrus.Errorf("failed to list target systems: %v", err)
		return err
	}

	pretty := bytes.Buffer{}
	json.Indent(&pretty, []byte(util.StructToJSON(systems)), "", "  ")
	fmt.Println(pretty.String())
	return nil
}

func (app *CobraApp) runTargetSystemServices(cmd *cobra.Command, args []string) error {
	targetSystemID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		logrus.Errorf("invalid target system id: %v", err)
		return err
	}

	client := app.clientFromFlags(cmd)
	services, err := client.ListTargetSystemServices(targetSystemID)
	if err != nil {
		logrus.Errorf("failed to list target system services: %v", err)
		return err
	}

	pretty := bytes.Buffer{}
	json.Indent(&pretty, []byte(util.StructToJSON(services)), "", "  ")
	fmt.Println(pretty.String())
	return nil
}

func printEnvelope(envelope model.Envelope) {
	for _, message := range envelope.Messages {
		fmt.Println(message)
	}
	for _, errMessage := range envelope.Errors {
		fmt.Println(errMessage)
	}
}
