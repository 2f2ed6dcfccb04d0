// Package ytdlp runs the external yt-dlp tool and reads its output.
//
// Runner spawns the tool in the target directory with a fixed argument set
// (see DefaultArgs) and classifies the run as success, I/O error or
// failure. ExtractFilePath recovers the produced mp3 path from the
// "[ffmpeg] Destination: <name>.mp3" line the tool prints.
//
//	res := ytdlp.NewRunner("", nil).Download(ctx, ytdlp.NewInvocation(dir, url))
//	if res.Type == ytdlp.ResultSuccess {
//	    path := ytdlp.ExtractFilePath(res.Output, dir)
//	    ...
//	}
package ytdlp
