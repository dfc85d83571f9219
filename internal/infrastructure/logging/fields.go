package logging

import "go.uber.org/zap"

// Field helpers keep key names consistent across packages.

func BatchID(id string) zap.Field { return zap.String("batch_id", id) }

func SessionID(id string) zap.Field { return zap.String("session_id", id) }

func Player(name string) zap.Field { return zap.String("player", name) }

func Kind(kind string) zap.Field { return zap.String("kind", kind) }

func Command(cmd string) zap.Field { return zap.String("command", cmd) }
