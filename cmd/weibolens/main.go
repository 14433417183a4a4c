package main

import (
	"context"

	"weibolens-backend/cmd/weibolens/commands"
	"weibolens-backend/lib/osutil"
	"weibolens-backend/lib/telemetry"
)

func main() {
	ctx := osutil.SignalContext()

	telemetry.InitSlog(false)
	telemetry.SetupFromEnv(ctx, "weibolens")
	defer telemetry.Shutdown(context.Background())

	commands.ExecuteContext(ctx)
}
