package credentials

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/yasmagic/elasticrtc-tools/pkg/config"
	"github.com/yasmagic/elasticrtc-tools/pkg/logger"
	"github.com/yasmagic/elasticrtc-tools/pkg/models"
)

const banner = "\n====================================\n"

const missingCredentialsHelp = banner +
	"AWS credentials not configured. Access and secret keys must be \n" +
	"provided in order to allow Kurento tools to access AWS APIs.\n" +
	"\n" +
	"If you're the account administrator execute following procedure:\n" +
	"  1 - Navigate to https://console.aws.amazon.com/iam/home?#security_credential\n" +
	"  2 - Open section Access Keys (Access Key ID and Secret Access Key)\n" +
	"  3 - Press button Create New Access Key\n" +
	"\n" +
	"If you're not the account administrator you still can generate credentials\n" +
	"with following procedure\n" +
	"  1 - Navigate to https://myaccount.signin.aws.amazon.com/console. Your AWS\n" +
	"      administrator will provide you the value for myaccount\n" +
	"  2 - Login to AWS console with you IAM user and password. Ask your AWS\n" +
	"      administrator if you don't have an IAM user\n" +
	"  3 - Navigate to IAM home https://console.aws.amazon.com/iam/home#home\n" +
	"  4 - Open section 'Rotate your access keys' and click 'Manage User Access Key'\n" +
	"  5 - Go to section 'Security Credentials' and click 'Create Access Key'\n" +
	banner

// Resolver picks the credentials for one run: explicit keys, a named
// profile, the only profile, a menu choice, or keys typed by the operator.
type Resolver struct {
	Store    *Store
	Prompter *Prompter

	AccessKeyID     string
	SecretAccessKey string
	Profile         string
}

func NewResolver(store *Store, prompter *Prompter, cfg *models.ClusterConfig) *Resolver {
	return &Resolver{
		Store:           store,
		Prompter:        prompter,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
		Profile:         cfg.Profile,
	}
}

func (r *Resolver) Resolve(ctx context.Context) (Credentials, error) {
	l := logger.Get()

	explicit := Credentials{AccessKeyID: r.AccessKeyID, SecretAccessKey: r.SecretAccessKey}
	if explicit.Complete() {
		l.Debug("Using AWS credentials given on the command line")
		return explicit, nil
	}

	profiles, err := r.Store.Profiles()
	if err != nil {
		return Credentials{}, err
	}

	if r.Profile != "" {
		for _, p := range profiles {
			if p.Profile == r.Profile {
				return p, nil
			}
		}
		return Credentials{}, models.NewUsageError(
			config.OptionUsage(config.OptProfile),
			"AWS profile not found: %s", r.Profile,
		)
	}

	switch len(profiles) {
	case 0:
		return r.gather(ctx)
	case 1:
		l.Debugf("Using AWS profile: %s", profiles[0].Profile)
		return profiles[0], nil
	default:
		return r.selectProfile(ctx, profiles)
	}
}

func (r *Resolver) selectProfile(ctx context.Context, profiles []Credentials) (Credentials, error) {
	var menu strings.Builder
	menu.WriteString(banner + "Following AWS credential profiles have been found:\n")
	for i, p := range profiles {
		fmt.Fprintf(&menu, "   %d - %s\n", i+1, p.Profile)
	}
	menu.WriteString("Select credentials profile:")

	for {
		if err := ctx.Err(); err != nil {
			return Credentials{}, err
		}
		answer, err := r.Prompter.ReadLine(menu.String())
		if err != nil {
			return Credentials{}, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(answer))
		if err == nil && n >= 1 && n <= len(profiles) {
			logger.Get().Debugf("Using AWS profile: %s", profiles[n-1].Profile)
			return profiles[n-1], nil
		}
		fmt.Fprintln(r.Prompter.Out, "Invalid selection")
	}
}

func (r *Resolver) gather(ctx context.Context) (Credentials, error) {
	fmt.Fprint(r.Prompter.Out, missingCredentialsHelp)

	id, err := r.Prompter.ReadNonEmpty("Enter AWS Access Key ID:", false)
	if err != nil {
		return Credentials{}, err
	}
	if err := ctx.Err(); err != nil {
		return Credentials{}, err
	}
	secret, err := r.Prompter.ReadNonEmpty("Enter AWS Secret Access Key:", true)
	if err != nil {
		return Credentials{}, err
	}

	creds := Credentials{Profile: DefaultProfile, AccessKeyID: id, SecretAccessKey: secret}
	if err := r.Store.Save(creds); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}
