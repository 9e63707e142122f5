//go:build darwin

package platform

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa
#import <Cocoa/Cocoa.h>

int
SetActivationPolicy(void) {
    [NSApp setActivationPolicy:NSApplicationActivationPolicyAccessory];
    return 0;
}
*/
import "C"

// SetActivationPolicy makes the app an accessory: menu bar item only, no
// Dock icon (macOS only).
func SetActivationPolicy() {
	C.SetActivationPolicy()
}
