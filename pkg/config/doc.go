// Package config provides YAML-based configuration for Skiff.
//
// # Loading
//
// Configuration is loaded from a YAML file, defaulted, optionally
// overridden from the environment, and validated:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Environment variables follow the SKIFF_SECTION_FIELD convention
// (e.g., SKIFF_EXPORT_PAGE_SIZE=1000) and always win over file values.
//
// # Validation
//
// Validate collects all field errors rather than failing on the first,
// so a misconfigured deployment reports every problem at once:
//
//	if err := config.Validate(cfg); err != nil {
//	    var verr config.ValidationError
//	    if errors.As(err, &verr) {
//	        for _, fe := range verr.Errors {
//	            fmt.Println(fe.Field, fe.Message)
//	        }
//	    }
//	}
package config
