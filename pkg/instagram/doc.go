// Package instagram provides a client for Instagram's private mobile API.
//
// The client presents itself as an Android handset, signs request bodies the
// way the mobile application does and keeps a cookie-backed session that can
// be saved and restored.
//
// This package includes:
//   - Login, logout and session persistence
//   - Paginated feeds, follower lists, comments and activity
//   - Likes, comments, follows and media editing
//   - Photo and chunked video uploads
//
// Example usage:
//
//	cfg := config.DefaultConfig()
//	cfg.Account.Username = "alice"
//	cfg.Account.Password = "secret"
//
//	client, err := instagram.NewClient(cfg)
//	if err != nil {
//	    return err
//	}
//	if err := client.Login(ctx); err != nil {
//	    if errors.IsPrecondition(err) {
//	        // missing credentials
//	    }
//	    return err
//	}
//
//	page, err := client.FetchTimelineFeed(ctx, 3)
//	if err != nil {
//	    return err
//	}
//	if page.Partial() {
//	    log.Println(page.Warning)
//	}
package instagram
