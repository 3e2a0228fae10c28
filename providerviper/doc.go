// Package providerviper serves configuration from a spf13/viper instance.
//
// Example:
//
//	v := viper.New()
//	v.SetDefault("server.port", 8080)
//	p := providerviper.New(v, providerviper.Options{PathMode: true})
//	port, err := p.Get(ctx, "server.port")
package providerviper
