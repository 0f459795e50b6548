package web

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

func Home(page HomePage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := page.Title
		if title == "" {
			title = "Spot the Bot"
		}
		maxDefault := 0
		if len(page.MaxOptions) > 0 {
			maxDefault = page.MaxOptions[len(page.MaxOptions)-1]
		}
		roundDefault := 180
		parts := []string{`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>`, templ.EscapeString(title), `</title>
    <style>
      body { font-family: system-ui, sans-serif; margin: 0; background: #101418; color: #e8edf2; }
      main { max-width: 720px; margin: 0 auto; padding: 24px; }
      section { background: #1a2027; border-radius: 10px; padding: 16px; margin-bottom: 16px; }
      button { padding: 8px 14px; border-radius: 6px; border: 0; cursor: pointer; }
      input, select { padding: 8px; border-radius: 6px; border: 1px solid #334; }
      #messages { height: 260px; overflow-y: auto; background: #0c0f12; padding: 8px; border-radius: 6px; }
      .hidden { display: none; }
      .error { color: #ff8a80; }
      .label { font-weight: 600; margin-right: 6px; }
    </style>
  </head>
  <body>
    <main>
      <header>
        <h1>`, templ.EscapeString(title), `</h1>
        <p>Chat with your friends. One of the players is an AI. Find it.</p>
      </header>

      <section id="entry">
        <h2>Create a room</h2>
        <label>Players <select id="maxParticipants">`, options(page.MaxOptions, maxDefault, ""), `</select></label>
        <label>Round <select id="roundSeconds">`, options(page.RoundOptions, roundDefault, "s"), `</select></label>
        <button id="createRoom">Create room</button>
        <h2>Join a room</h2>
        <form id="joinForm">
          <input name="code" placeholder="Room code" autocomplete="off" maxlength="4" value="`, templ.EscapeString(page.RoomCode), `" required/>
          <input name="nickname" placeholder="Nickname" maxlength="20" required/>
          <button type="submit">Join</button>
        </form>
        <p id="entryError" class="error"></p>
      </section>

      <section id="room" class="hidden">
        <h2>Room <span id="roomCode"></span> <small id="phase"></small></h2>
        <img id="qr" alt="Join QR code" width="128" height="128"/>
        <ul id="players"></ul>
        <div id="lobbyControls" class="hidden">
          <button id="startGame">Start game</button>
        </div>
        <div id="round" class="hidden">
          <p><strong id="theme"></strong> <span id="question"></span></p>
          <p>You are <span id="youLabel" class="label"></span> <span id="timer"></span></p>
          <div id="messages"></div>
          <form id="chatForm">
            <input name="text" maxlength="500" autocomplete="off" placeholder="Say something"/>
            <button type="submit">Send</button>
          </form>
        </div>
        <div id="voting" class="hidden">
          <p>Who is the AI?</p>
          <div id="voteButtons"></div>
        </div>
        <div id="results" class="hidden">
          <p id="verdict"></p>
          <ul id="roster"></ul>
          <button id="ready">Play again</button>
        </div>
        <button id="leave">Leave</button>
        <p id="roomError" class="error"></p>
      </section>
    </main>

    <script>
      const $ = (id) => document.getElementById(id);
      let socket = null;
      let roomCode = "";
      let state = null;
      let pendingJoin = null;

      function connect() {
        if (socket && socket.readyState <= 1) return;
        const proto = location.protocol === "https:" ? "wss:" : "ws:";
        socket = new WebSocket(proto + "//" + location.host + "/ws");
        socket.onopen = () => {
          if (pendingJoin) send("joinRoom", pendingJoin);
        };
        socket.onmessage = (msg) => {
          const { event, data } = JSON.parse(msg.data);
          handlers[event] && handlers[event](data);
        };
        socket.onclose = () => { socket = null; };
      }

      function send(event, data) {
        if (!socket || socket.readyState !== 1) { connect(); return; }
        socket.send(JSON.stringify({ event, data }));
      }

      function text(el, value) { el.textContent = value == null ? "" : String(value); }
      function show(el, on) { el.classList.toggle("hidden", !on); }

      function appendMessage(m) {
        const row = document.createElement("div");
        const label = document.createElement("span");
        label.className = "label";
        text(label, m.label + (m.mine ? " (you)" : ""));
        row.appendChild(label);
        row.appendChild(document.createTextNode(m.text));
        $("messages").appendChild(row);
        $("messages").scrollTop = $("messages").scrollHeight;
      }

      function render(s) {
        state = s;
        roomCode = s.roomCode;
        show($("entry"), false);
        show($("room"), true);
        text($("roomCode"), s.roomCode);
        text($("phase"), s.phase);
        $("qr").src = "/api/rooms/" + encodeURIComponent(s.roomCode) + "/qr";
        const players = $("players");
        players.innerHTML = "";
        s.players.forEach((p) => {
          const li = document.createElement("li");
          text(li, p.nickname + (p.isHost ? " (host)" : "") + (p.isYou ? " (you)" : "") + (p.ready ? " ready" : ""));
          players.appendChild(li);
        });
        const isHost = s.you && s.you.isHost;
        show($("lobbyControls"), s.phase === "lobby" && isHost);
        show($("round"), s.phase === "playing" || s.phase === "voting");
        show($("voting"), s.phase === "voting" && s.you && !s.you.hasVoted);
        show($("results"), s.phase === "finished");
        text($("theme"), s.theme);
        text($("question"), s.question);
        text($("youLabel"), s.you ? s.you.label : "");
        $("messages").innerHTML = "";
        (s.messages || []).forEach(appendMessage);
        const buttons = $("voteButtons");
        buttons.innerHTML = "";
        (s.slots || []).forEach((slot) => {
          if (slot.isYou) return;
          const b = document.createElement("button");
          text(b, slot.label);
          b.onclick = () => send("castVote", { roomCode, targetId: slot.slotId });
          buttons.appendChild(b);
        });
        if (s.results) renderResults(s.results);
      }

      function renderResults(r) {
        text($("verdict"), (r.playersWin ? "Players win! " : "The AI wins! ") +
          "The AI was " + r.aiParticipantLabel + (r.votedOutLabel ? ", voted out: " + r.votedOutLabel : ""));
        const roster = $("roster");
        roster.innerHTML = "";
        Object.keys(r.roster || {}).sort().forEach((label) => {
          const li = document.createElement("li");
          const votes = (r.breakdown && r.breakdown[label]) || [];
          text(li, label + " was " + r.roster[label] + " (" + votes.length + " votes)");
          roster.appendChild(li);
        });
      }

      const handlers = {
        connected: () => {},
        roomUpdate: render,
        gameStarted: render,
        newMessage: appendMessage,
        gameFinished: renderResults,
        error: (message) => {
          text(state ? $("roomError") : $("entryError"), message);
        },
      };

      setInterval(() => {
        if (!state) return;
        const end = state.phase === "playing" ? state.roundEndsAt : state.phase === "voting" ? state.voteEndsAt : null;
        if (!end) { text($("timer"), ""); return; }
        const left = Math.max(0, Math.round((new Date(end) - Date.now()) / 1000));
        text($("timer"), left + "s left");
      }, 500);

      $("createRoom").addEventListener("click", async () => {
        const res = await fetch("/api/rooms", {
          method: "POST",
          headers: { "Content-Type": "application/json" },
          body: JSON.stringify({
            maxParticipants: Number($("maxParticipants").value),
            roundDurationSeconds: Number($("roundSeconds").value),
          }),
        });
        const data = await res.json();
        if (!res.ok) { text($("entryError"), data.error || "Could not create room."); return; }
        $("joinForm").elements.code.value = data.roomCode;
        $("joinForm").elements.nickname.focus();
      });

      $("joinForm").addEventListener("submit", (event) => {
        event.preventDefault();
        const form = event.target.elements;
        pendingJoin = { roomCode: form.code.value.trim().toUpperCase(), nickname: form.nickname.value.trim() };
        connect();
        send("joinRoom", pendingJoin);
      });

      $("startGame").onclick = () => send("startGame", { roomCode });
      $("ready").onclick = () => send("markReady", { roomCode });
      $("leave").onclick = () => {
        send("leaveRoom", { roomCode });
        state = null;
        pendingJoin = null;
        show($("room"), false);
        show($("entry"), true);
      };
      $("chatForm").addEventListener("submit", (event) => {
        event.preventDefault();
        const input = event.target.elements.text;
        if (!input.value.trim()) return;
        send("sendMessage", { roomCode, text: input.value });
        input.value = "";
      });
    </script>
  </body>
</html>
`}
		for _, part := range parts {
			if _, err := io.WriteString(w, part); err != nil {
				return err
			}
		}
		return nil
	})
}
