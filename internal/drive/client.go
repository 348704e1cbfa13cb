// Package drive wraps the Google Drive v3 API surface the pipeline needs:
// listing PDF candidates in a folder, downloading file content, and renaming
// files in place.
package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	drivev3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"scannamer/internal/logging"
	"scannamer/internal/services"
)

// CandidateFile is one Drive file considered for renaming.
type CandidateFile struct {
	ID           string
	Name         string
	Size         int64
	ModifiedTime string
}

// Folder is one Drive folder, used by folder discovery.
type Folder struct {
	ID   string
	Name string
}

// Client talks to the Google Drive API.
type Client struct {
	service *drivev3.Service
	logger  *slog.Logger
}

// NewClient builds a Drive client from stored OAuth credentials. The token
// file must already exist; run the auth command to create it.
func NewClient(ctx context.Context, credentialsFile, tokenFile string, logger *slog.Logger) (*Client, error) {
	oauthConfig, err := loadOAuthConfig(credentialsFile)
	if err != nil {
		return nil, err
	}

	token, err := loadToken(tokenFile)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "drive", "load token",
			fmt.Sprintf("no stored token at %s; run 'scannamer auth' first", tokenFile), err)
	}

	httpClient := oauthConfig.Client(ctx, token)
	service, err := drivev3.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "drive", "create service", "initialize Drive API client", err)
	}
	return &Client{
		service: service,
		logger:  logging.NewComponentLogger(logger, "drive"),
	}, nil
}

// Authorize runs the installed-application OAuth flow: it prints the consent
// URL, reads the authorization code from in, exchanges it, and stores the
// resulting token at tokenFile.
func Authorize(ctx context.Context, credentialsFile, tokenFile string, in io.Reader, out io.Writer) error {
	oauthConfig, err := loadOAuthConfig(credentialsFile)
	if err != nil {
		return err
	}

	authURL := oauthConfig.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Fprintf(out, "Open the following URL in your browser and paste the authorization code:\n%s\n\nCode: ", authURL)

	var code string
	if _, err := fmt.Fscan(in, &code); err != nil {
		return services.Wrap(services.ErrConfiguration, "drive", "authorize", "read authorization code", err)
	}

	token, err := oauthConfig.Exchange(ctx, strings.TrimSpace(code))
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "drive", "authorize", "exchange authorization code", err)
	}
	return saveToken(tokenFile, token)
}

// ListPDFs returns the PDF files inside folderID, newest first. A limit of
// zero returns the API default page size.
func (c *Client) ListPDFs(ctx context.Context, folderID string, limit int64) ([]CandidateFile, error) {
	call := c.service.Files.List().
		Q(pdfQuery(folderID)).
		Fields("files(id, name, size, modifiedTime)").
		OrderBy("modifiedTime desc").
		Context(ctx)
	if limit > 0 {
		call = call.PageSize(limit)
	}

	result, err := call.Do()
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "drive", "list",
			fmt.Sprintf("list PDFs in folder %s", folderID), err)
	}

	files := make([]CandidateFile, 0, len(result.Files))
	for _, file := range result.Files {
		files = append(files, CandidateFile{
			ID:           file.Id,
			Name:         file.Name,
			Size:         file.Size,
			ModifiedTime: file.ModifiedTime,
		})
	}
	c.logger.Debug("listed folder", logging.String("folder_id", folderID), logging.Int("files", len(files)))
	return files, nil
}

// ListFolders returns the non-trashed folders visible to the account, for
// interactive folder selection.
func (c *Client) ListFolders(ctx context.Context) ([]Folder, error) {
	result, err := c.service.Files.List().
		Q("mimeType='application/vnd.google-apps.folder' and trashed=false").
		Fields("files(id, name)").
		OrderBy("name").
		Context(ctx).
		Do()
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "drive", "list folders", "list Drive folders", err)
	}
	folders := make([]Folder, 0, len(result.Files))
	for _, file := range result.Files {
		folders = append(folders, Folder{ID: file.Id, Name: file.Name})
	}
	return folders, nil
}

// Download writes the content of fileID to destPath.
func (c *Client) Download(ctx context.Context, fileID, destPath string) error {
	response, err := c.service.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return services.Wrap(services.ErrTransient, "drive", "download",
			fmt.Sprintf("download file %s", fileID), err)
	}
	defer response.Body.Close()

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("create download directory: %w", err)
	}
	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create %q: %w", destPath, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, response.Body); err != nil {
		return services.Wrap(services.ErrTransient, "drive", "download",
			fmt.Sprintf("write file %s to disk", fileID), err)
	}
	return nil
}

// Rename changes the display name of fileID.
func (c *Client) Rename(ctx context.Context, fileID, newName string) error {
	_, err := c.service.Files.Update(fileID, &drivev3.File{Name: newName}).
		Fields("id", "name").
		Context(ctx).
		Do()
	if err != nil {
		return services.Wrap(services.ErrTransient, "drive", "rename",
			fmt.Sprintf("rename file %s to %q", fileID, newName), err)
	}
	c.logger.Info("renamed file", logging.String(logging.FieldFileID, fileID), logging.String("new_name", newName))
	return nil
}

func pdfQuery(folderID string) string {
	escaped := strings.ReplaceAll(folderID, `'`, `\'`)
	return fmt.Sprintf("'%s' in parents and mimeType='application/pdf' and trashed=false", escaped)
}

func loadOAuthConfig(credentialsFile string) (*oauth2.Config, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "drive", "load credentials",
			fmt.Sprintf("read OAuth credentials from %s", credentialsFile), err)
	}
	oauthConfig, err := google.ConfigFromJSON(data, drivev3.DriveScope)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "drive", "load credentials",
			"parse OAuth client credentials", err)
	}
	return oauthConfig, nil
}

func loadToken(tokenFile string) (*oauth2.Token, error) {
	file, err := os.Open(tokenFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	token := &oauth2.Token{}
	if err := json.NewDecoder(file).Decode(token); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	return token, nil
}

func saveToken(tokenFile string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(tokenFile), 0o755); err != nil {
		return fmt.Errorf("create token directory: %w", err)
	}
	file, err := os.OpenFile(tokenFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create token file: %w", err)
	}
	defer file.Close()
	if err := json.NewEncoder(file).Encode(token); err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	return nil
}
