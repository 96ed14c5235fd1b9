package logging

import "log/slog"

// Domain identifiers

func Thread(id string) slog.Attr {
	return slog.String("thread_id", id)
}

func Participant(id string) slog.Attr {
	return slog.String("participant_id", id)
}

func Message(id string) slog.Attr {
	return slog.String("message_id", id)
}

func Connection(id string) slog.Attr {
	return slog.String("connection_id", id)
}

// Request / tracing

func TraceID(id string) slog.Attr {
	return slog.String("trace_id", id)
}

// Error handling

func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("err", "")
	}
	return slog.String("err", err.Error())
}
