package stream

import "go.uber.org/fx"

// Module provides the in-process event broker to the fx container.
var Module = fx.Provide(NewBroker)
