// Package app builds the object graph used by the tubeaudio front ends.
//
//	settings, _ := config.Load("")
//	logger, _ := monitoring.NewLogger(&settings.Logging)
//	a, err := app.New(ctx, settings, logger)
//	if err != nil {
//	    return err
//	}
//	defer a.Close()
//	err = a.Session.Search(ctx, "lofi")
package app
