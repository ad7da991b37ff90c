package properties

import "strings"

// CoreProperties are the cross-cutting settings every stratoctl command
// consults.
type CoreProperties struct {
	Section *Section

	// Project is the cloud project API requests target.
	Project *Property
	// Account is the identity used for authentication.
	Account *Property
	// Verbosity is the default output verbosity.
	Verbosity *Property
	// DisablePrompts makes interactive confirmations fail instead of asking.
	DisablePrompts *Property
	// DisableUsageReporting opts out of anonymous usage reporting.
	DisableUsageReporting *Property
	// CustomCACertsFile points TLS verification at a private CA bundle.
	CustomCACertsFile *Property
}

// ComputeProperties are the default locations for compute resources.
type ComputeProperties struct {
	Section *Section

	// Zone is the default zone for zonal resources.
	Zone *Property
	// Region is the default region for regional resources. When unset it is
	// derived from the configured zone.
	Region *Property
}

// ExperimentalProperties gate in-development behavior. The whole section is
// hidden; entries surface in listings only once a user persists them.
type ExperimentalProperties struct {
	Section *Section

	// FastTransport switches API calls to the experimental transport stack.
	FastTransport *Property
}

// MetricsProperties carry implementation-only reporting state.
type MetricsProperties struct {
	Section *Section

	// Environment tags usage reports; never listed.
	Environment *Property
}

// installCatalog registers the standard sections. The catalog is pure data;
// none of the engine's behavior depends on any particular entry.
func (r *Registry) installCatalog() {
	core := r.AddSection("core")
	r.Core = &CoreProperties{
		Section: core,
		Project: core.Add("project",
			WithHelp("Project ID of the project to operate on.")),
		Account: core.Add("account",
			WithHelp("Account used for authentication.")),
		Verbosity: core.Add("verbosity",
			WithHelp("Default verbosity for user-facing output."),
			WithChoices("debug", "info", "warning", "error"),
			WithDefault("warning")),
		DisablePrompts: core.AddBool("disable_prompts",
			WithHelp("Skip interactive prompts; confirmations fail instead of asking."),
			WithDefault(false)),
		DisableUsageReporting: core.AddBool("disable_usage_reporting",
			WithHelp("Opt out of anonymous usage reporting."),
			WithDefault(true)),
		CustomCACertsFile: core.Add("custom_ca_certs_file",
			WithHelp("Absolute path to a custom CA certificate bundle file.")),
	}

	compute := r.AddSection("compute")
	zone := compute.Add("zone",
		WithHelp("Default zone for zonal resources."))
	region := compute.Add("region",
		WithHelp("Default region for regional resources; derived from the zone when unset."),
		WithCallback(regionFromZone(zone)))
	r.Compute = &ComputeProperties{Section: compute, Zone: zone, Region: region}

	experimental := r.AddHiddenSection("experimental")
	r.Experimental = &ExperimentalProperties{
		Section: experimental,
		FastTransport: experimental.AddBool("fast_transport",
			WithHelp("Use the experimental transport stack for API calls."),
			WithDefault(false)),
	}

	metrics := r.AddSection("metrics")
	r.Metrics = &MetricsProperties{
		Section: metrics,
		Environment: metrics.Add("environment",
			WithHelp("Environment tag attached to usage reports."),
			Internal()),
	}
}

// regionFromZone derives a region from the configured zone by dropping the
// zone letter: "us-central1-a" yields "us-central1". A missing or dash-less
// zone derives nothing.
func regionFromZone(zone *Property) Callback {
	return func() (string, bool) {
		res := zone.Resolve()
		if !res.Found {
			return "", false
		}
		i := strings.LastIndex(res.Value, "-")
		if i <= 0 {
			return "", false
		}
		return res.Value[:i], true
	}
}
