// Package logtail reads the tail of the dex log file and renders its JSON
// records for humans.
//
// Read keeps at most about twice maxLines in memory while scanning, so large
// logs are safe to tail. Parse and Format understand the zap production
// encoding written by the logging package: ts, level, logger, msg and caller
// are fixed columns, every other key is printed as key=value in sorted order.
//
//	lines, err := logtail.Read(cfg.LogFile, 200)
//	if err != nil {
//		return err
//	}
//	for _, line := range logtail.Pretty(lines, zapcore.WarnLevel) {
//		fmt.Println(line)
//	}
package logtail
