package config

import (
	"bytes"
	"text/template"
)

var configFileTmpl = template.Must(template.New("config").Parse(`# lfsgate configuration

# The name of the server.
name: "{{ .Name }}"

# Logging configuration.
log:
  # Log format to use. Valid values are "json", "logfmt", and "text".
  format: "{{ .Log.Format }}"
  # Time format for the log "timestamp" field.
  # Should be described in Golang's time format.
  time_format: "{{ .Log.TimeFormat }}"
  # Path to the log file. Leave empty to write to stderr.
  #path: "{{ .Log.Path }}"

# The HTTP server configuration.
http:
  # The address on which the HTTP server will listen.
  listen_addr: "{{ .HTTP.ListenAddr }}"

  # The path to the TLS private key.
  tls_key_path: "{{ .HTTP.TLSKeyPath }}"

  # The path to the TLS certificate.
  tls_cert_path: "{{ .HTTP.TLSCertPath }}"

  # The public URL of the HTTP server.
  public_url: "{{ .HTTP.PublicURL }}"

  # The maximum size of a batch request body in bytes.
  max_body_bytes: {{ .HTTP.MaxBodyBytes }}

# The stats server configuration.
stats:
  # The address on which the stats server will listen.
  listen_addr: "{{ .Stats.ListenAddr }}"

# Organizations served by the gateway. Matching is exact and case-sensitive.
orgs:
  allowed:{{ range .Orgs.Allowed }}
    - "{{ . }}"{{ else }} []{{ end }}

# The permission cache configuration.
cache:
  # The cache backend. Valid values are "lru", "redis", and "noop".
  backend: "{{ .Cache.Backend }}"
  # How long a resolved permission is cached.
  ttl: "{{ .Cache.TTL }}"
  # The maximum number of entries kept by the lru backend.
  size: {{ .Cache.Size }}
  # The redis backend connection.
  redis:
    #url: "redis://localhost:6379/0"
    addr: "{{ .Cache.Redis.Addr }}"
    username: "{{ .Cache.Redis.Username }}"
    #password: ""
    db: {{ .Cache.Redis.DB }}

# The permission oracle configuration.
oracle:
  # The GitHub REST API base URL.
  api_url: "{{ .Oracle.APIURL }}"
  # The maximum time a permission lookup can take.
  timeout: "{{ .Oracle.Timeout }}"
  # The User-Agent sent to the API.
  user_agent: "{{ .Oracle.UserAgent }}"

# The object storage configuration.
storage:
  # The storage backend. Valid values are "s3" and "local".
  backend: "{{ .Storage.Backend }}"

  # S3 compatible storage. Use region "auto" for R2.
  endpoint: "{{ .Storage.Endpoint }}"
  region: "{{ .Storage.Region }}"
  bucket: "{{ .Storage.Bucket }}"
  use_path_style: {{ .Storage.UsePathStyle }}
  #access_key_id: ""
  #secret_access_key: ""

  # Local storage. Signed URLs point to the blob host at public_url.
  local_root: "{{ .Storage.LocalRoot }}"
  public_url: "{{ .Storage.PublicURL }}"
  #signing_secret: ""

# Batch processing configuration.
batch:
  # The number of objects of a batch processed at once.
  concurrency: {{ .Batch.Concurrency }}
  # The lifetime of signed action URLs.
  action_expiry: "{{ .Batch.ActionExpiry }}"
`))

func newConfigFile(cfg *Config) string {
	var b bytes.Buffer
	configFileTmpl.Execute(&b, cfg) // nolint: errcheck
	return b.String()
}

// File returns the config rendered as a config file.
func (c *Config) File() string {
	return newConfigFile(c)
}
