package clientcli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/sagarc03/selcdn"
)

// Formatter formats results for output.
type Formatter interface {
	FormatStorageInfo(w io.Writer, info selcdn.StorageInfo) error
	FormatContainers(w io.Writer, containers []selcdn.ContainerEntry) error
	FormatContainer(w io.Writer, result ContainerResult) error
	FormatList(w io.Writer, result *ListResult) error
	FormatUpload(w io.Writer, results []UploadResult) error
	FormatArchive(w io.Writer, result *ArchiveUploadResult) error
	FormatDelete(w io.Writer, results []DeleteResult) error
	FormatExists(w io.Writer, result ExistsResult) error
	FormatError(w io.Writer, err error) error
	FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error
	FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error
}

// NewFormatter returns the appropriate formatter based on flags.
func NewFormatter(jsonOutput, quiet bool) Formatter {
	if jsonOutput {
		return &JSONFormatter{}
	}
	return &HumanFormatter{Quiet: quiet}
}

// HumanFormatter outputs human-readable text.
type HumanFormatter struct {
	Quiet bool
}

// FormatStorageInfo formats the account summary.
func (f *HumanFormatter) FormatStorageInfo(w io.Writer, info selcdn.StorageInfo) error {
	_, _ = fmt.Fprintf(w, "Containers: %d\n", info.ContainersCount)
	_, _ = fmt.Fprintf(w, "Objects:    %d\n", info.ObjectsCount)
	_, _ = fmt.Fprintf(w, "Used:       %s\n", formatSize(info.BytesUsed))
	return nil
}

// FormatContainers formats the container listing as a table.
func (f *HumanFormatter) FormatContainers(w io.Writer, containers []selcdn.ContainerEntry) error {
	if len(containers) == 0 {
		_, _ = fmt.Fprintln(w, "No containers found")
		return nil
	}

	nameLen := columnWidth("NAME", 40, len(containers), func(i int) string { return containers[i].Name })

	_, _ = fmt.Fprintf(w, "%-*s  %-8s  %10s  %10s\n", nameLen, "NAME", "TYPE", "OBJECTS", "SIZE")
	_, _ = fmt.Fprintf(w, "%s  %s  %s  %s\n", strings.Repeat("-", nameLen), strings.Repeat("-", 8), strings.Repeat("-", 10), strings.Repeat("-", 10))

	for i := range containers {
		c := &containers[i]
		_, _ = fmt.Fprintf(w, "%-*s  %-8s  %10d  %10s\n", nameLen, truncate(c.Name, nameLen), c.Type, c.Count, formatSize(c.Bytes))
	}

	return nil
}

// FormatContainer formats one container's summary.
func (f *HumanFormatter) FormatContainer(w io.Writer, result ContainerResult) error {
	_, _ = fmt.Fprintf(w, "Container: %s\n", result.Name)
	_, _ = fmt.Fprintf(w, "Type:      %s\n", result.Info.Type)
	_, _ = fmt.Fprintf(w, "Objects:   %d\n", result.Info.ObjectsCount)
	_, _ = fmt.Fprintf(w, "Used:      %s\n", formatSize(result.Info.BytesUsed))
	if domains := result.Info.DomainList(); len(domains) > 0 {
		_, _ = fmt.Fprintf(w, "Domains:   %s\n", strings.Join(domains, ", "))
	}
	return nil
}

// FormatList formats a listing as a table. Folders are suffixed with "/".
func (f *HumanFormatter) FormatList(w io.Writer, result *ListResult) error {
	if len(result.Items) == 0 {
		_, _ = fmt.Fprintln(w, "No objects found")
		return nil
	}

	name := func(i int) string {
		if result.Items[i].IsDirectory() {
			return result.Items[i].Name + "/"
		}
		return result.Items[i].Name
	}
	nameLen := columnWidth("NAME", 60, len(result.Items), name)

	_, _ = fmt.Fprintf(w, "%-*s  %10s  %s\n", nameLen, "NAME", "SIZE", "MODIFIED")
	_, _ = fmt.Fprintf(w, "%s  %s  %s\n", strings.Repeat("-", nameLen), strings.Repeat("-", 10), strings.Repeat("-", 19))

	for i := range result.Items {
		item := &result.Items[i]
		size := formatSize(item.Bytes)
		if item.IsDirectory() {
			size = "-"
		}
		_, _ = fmt.Fprintf(w, "%-*s  %10s  %s\n", nameLen, truncate(name(i), nameLen), size, formatModified(item.LastModified))
	}

	_, _ = fmt.Fprintf(w, "\n%d object(s) (%s total)\n", len(result.Items), formatSize(result.TotalSize()))
	return nil
}

// FormatUpload formats upload results as human-readable text.
func (f *HumanFormatter) FormatUpload(w io.Writer, results []UploadResult) error {
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			_, _ = fmt.Fprintf(w, "Error: %s - %v\n", r.LocalPath, r.Err)
			continue
		}
		if f.Quiet {
			continue
		}
		_, _ = fmt.Fprintf(w, "Uploaded: %s/%s (%s)\n", r.Container, r.RemotePath, formatSize(r.Size))
		switch {
		case r.DeleteAt > 0:
			_, _ = fmt.Fprintf(w, "  Expires at: %d\n", r.DeleteAt)
		case r.DeleteAfter > 0:
			_, _ = fmt.Fprintf(w, "  Expires after: %ds\n", r.DeleteAfter)
		}
	}
	return nil
}

// FormatArchive formats a bulk upload report.
func (f *HumanFormatter) FormatArchive(w io.Writer, result *ArchiveUploadResult) error {
	for _, e := range result.Result.Errors {
		_, _ = fmt.Fprintf(w, "Error: %s - %s\n", e.Name, e.Status)
	}
	if f.Quiet {
		return nil
	}

	target := result.Container
	if target == "" {
		target = "(account)"
	}
	_, _ = fmt.Fprintf(w, "Extracted: %s -> %s (%s)\n", result.Source, target, result.Format)
	_, _ = fmt.Fprintf(w, "  Files created: %d\n", result.Result.FilesCreated)
	_, _ = fmt.Fprintf(w, "  Status: %s\n", result.Result.ResponseStatus)
	return nil
}

// FormatDelete formats delete results as human-readable text.
func (f *HumanFormatter) FormatDelete(w io.Writer, results []DeleteResult) error {
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			_, _ = fmt.Fprintf(w, "Error: %s - %v\n", r.Path, r.Err)
			continue
		}
		if f.Quiet {
			continue
		}
		if r.Recursive {
			_, _ = fmt.Fprintf(w, "Deleted folder: %s/%s\n", r.Container, r.Path)
		} else {
			_, _ = fmt.Fprintf(w, "Deleted: %s/%s\n", r.Container, r.Path)
		}
	}
	return nil
}

// FormatExists formats an existence check.
func (f *HumanFormatter) FormatExists(w io.Writer, result ExistsResult) error {
	if f.Quiet {
		return nil
	}
	if result.Exists {
		_, _ = fmt.Fprintf(w, "Exists: %s/%s\n", result.Container, result.Path)
	} else {
		_, _ = fmt.Fprintf(w, "Not found: %s/%s\n", result.Container, result.Path)
	}
	return nil
}

// FormatError formats an error as human-readable text.
func (f *HumanFormatter) FormatError(w io.Writer, err error) error {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

// FormatProfileList formats a list of profiles as a table. The default
// profile is marked with "*".
func (f *HumanFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error {
	nameLen := columnWidth("NAME", 20, len(profiles), func(i int) string { return profiles[i].Name })
	urlLen := columnWidth("AUTH URL", 50, len(profiles), func(i int) string { return profiles[i].AuthURL })

	_, _ = fmt.Fprintf(w, "  %-*s  %-*s  %-16s  %s\n", nameLen, "NAME", urlLen, "AUTH URL", "LOGIN", "PASSWORD")
	_, _ = fmt.Fprintf(w, "  %s  %s  %s  %s\n", strings.Repeat("-", nameLen), strings.Repeat("-", urlLen), strings.Repeat("-", 16), strings.Repeat("-", 16))

	for i := range profiles {
		p := &profiles[i]
		marker := " "
		if p.Name == defaultName {
			marker = "*"
		}

		_, _ = fmt.Fprintf(w, "%s %-*s  %-*s  %-16s  %s\n",
			marker,
			nameLen, truncate(p.Name, nameLen),
			urlLen, truncate(p.AuthURL, urlLen),
			p.Login,
			maskSecret(p.Password, showSecrets),
		)
	}

	return nil
}

// FormatProfileShow formats a single profile as human-readable text.
func (f *HumanFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error {
	_, _ = fmt.Fprintf(w, "Name:     %s", profile.Name)
	if isDefault {
		_, _ = fmt.Fprintf(w, " (default)")
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Auth URL: %s\n", profile.AuthURL)
	_, _ = fmt.Fprintf(w, "Login:    %s\n", profile.Login)
	_, _ = fmt.Fprintf(w, "Password: %s\n", maskSecret(profile.Password, showSecrets))
	return nil
}

// JSONFormatter outputs JSON.
type JSONFormatter struct{}

// FormatStorageInfo formats the account summary as JSON.
func (f *JSONFormatter) FormatStorageInfo(w io.Writer, info selcdn.StorageInfo) error {
	return writeJSON(w, info)
}

// FormatContainers formats the container listing as JSON.
func (f *JSONFormatter) FormatContainers(w io.Writer, containers []selcdn.ContainerEntry) error {
	if containers == nil {
		containers = []selcdn.ContainerEntry{}
	}
	return writeJSON(w, struct {
		Containers []selcdn.ContainerEntry `json:"containers"`
	}{containers})
}

// FormatContainer formats one container's summary as JSON.
func (f *JSONFormatter) FormatContainer(w io.Writer, result ContainerResult) error {
	return writeJSON(w, result)
}

// FormatList formats a listing as JSON.
func (f *JSONFormatter) FormatList(w io.Writer, result *ListResult) error {
	out := *result
	if out.Items == nil {
		out.Items = []selcdn.StorageEntry{}
	}
	return writeJSON(w, out)
}

// FormatUpload formats upload results as JSON.
func (f *JSONFormatter) FormatUpload(w io.Writer, results []UploadResult) error {
	type jsonResult struct {
		UploadResult
		Error string `json:"error,omitempty"`
	}

	output := make([]jsonResult, len(results))
	for i := range results {
		output[i] = jsonResult{UploadResult: results[i]}
		if results[i].Err != nil {
			output[i].Error = results[i].Err.Error()
		}
	}

	return writeJSON(w, output)
}

// FormatArchive formats a bulk upload report as JSON.
func (f *JSONFormatter) FormatArchive(w io.Writer, result *ArchiveUploadResult) error {
	return writeJSON(w, result)
}

// FormatDelete formats delete results as JSON.
func (f *JSONFormatter) FormatDelete(w io.Writer, results []DeleteResult) error {
	type jsonResult struct {
		DeleteResult
		Error string `json:"error,omitempty"`
	}

	output := struct {
		Results []jsonResult `json:"results"`
	}{
		Results: make([]jsonResult, len(results)),
	}

	for i := range results {
		output.Results[i] = jsonResult{DeleteResult: results[i]}
		if results[i].Err != nil {
			output.Results[i].Error = results[i].Err.Error()
		}
	}

	return writeJSON(w, output)
}

// FormatExists formats an existence check as JSON.
func (f *JSONFormatter) FormatExists(w io.Writer, result ExistsResult) error {
	return writeJSON(w, result)
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	output := struct {
		Error string `json:"error"`
	}{
		Error: err.Error(),
	}
	return writeJSON(w, output)
}

type jsonProfile struct {
	Name     string `json:"name"`
	AuthURL  string `json:"auth_url"`
	Login    string `json:"login"`
	Password string `json:"password"`
	Default  bool   `json:"default"`
}

func toJSONProfile(p Profile, isDefault, showSecrets bool) jsonProfile {
	return jsonProfile{
		Name:     p.Name,
		AuthURL:  p.AuthURL,
		Login:    p.Login,
		Password: maskSecret(p.Password, showSecrets),
		Default:  isDefault,
	}
}

// FormatProfileList formats a list of profiles as JSON.
func (f *JSONFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error {
	output := struct {
		Profiles []jsonProfile `json:"profiles"`
	}{
		Profiles: make([]jsonProfile, len(profiles)),
	}

	for i := range profiles {
		output.Profiles[i] = toJSONProfile(profiles[i], profiles[i].Name == defaultName, showSecrets)
	}

	return writeJSON(w, output)
}

// FormatProfileShow formats a single profile as JSON.
func (f *JSONFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error {
	return writeJSON(w, toJSONProfile(profile, isDefault, showSecrets))
}

// writeJSON writes a value as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatSize formats bytes as human-readable size.
func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
	)

	switch {
	case bytes >= TB:
		return fmt.Sprintf("%.1f TB", float64(bytes)/TB)
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// formatModified trims the fractional seconds from a listing timestamp.
func formatModified(ts string) string {
	ts, _, _ = strings.Cut(ts, ".")
	return strings.Replace(ts, "T", " ", 1)
}

// columnWidth returns the widest of header and the n values, capped at limit.
func columnWidth(header string, limit, n int, value func(int) string) int {
	width := len(header)
	for i := 0; i < n; i++ {
		width = max(width, len(value(i)))
	}
	return min(width, limit)
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	return s[:width-3] + "..."
}

// maskSecret masks a secret string, showing only first 4 and last 4 characters.
// If showSecrets is true, returns the original value.
// If the secret is too short, returns all asterisks.
func maskSecret(secret string, showSecrets bool) string {
	if showSecrets {
		return secret
	}
	if secret == "" {
		return "(not set)"
	}
	if len(secret) <= 8 {
		return "********"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
