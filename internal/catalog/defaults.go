package catalog

import (
	"sync"

	"github.com/NielsdaWheelz/wsgen/internal/choices"
)

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the built-in catalog. It is built once per process.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = New(defaultBundles(), defaultConfigs(), defaultOverrides())
	})
	return defaultCat, defaultErr
}

var (
	uiApps     = []string{string(choices.AppFrontend), string(choices.AppAdmin)}
	allUIApps  = []string{string(choices.AppFrontend), string(choices.AppAdmin), string(choices.AppMobile)}
	backend    = []string{string(choices.AppBackend)}
	reactLike  = []string{"react", "nextjs", "expo"}
	jsRuntimes = []choices.Runtime{choices.RuntimeNode, choices.RuntimeBun}
)

func defaultBundles() []Bundle {
	var out []Bundle
	out = append(out, rootBundles()...)
	out = append(out, packageBundles()...)
	out = append(out, ormBundles()...)
	out = append(out, frameworkBundles()...)
	out = append(out, stylingBundles()...)
	out = append(out, stateBundles()...)
	out = append(out, testingBundles()...)
	out = append(out, authBundles()...)
	return out
}

const gitignore = `
	node_modules/
	dist/
	build/
	.next/
	.expo/
	coverage/
	*.tsbuildinfo
	.env
	.env.*
	.wsgen/staging/
	.wsgen/lock
`

func rootBundles() []Bundle {
	readme := Text("root-readme", `
		# {{.Project}}

		Generated by wsgen. Re-run ` + "`wsgen sync`" + ` after changing your answers;
		files you edited by hand are reported as conflicts and left alone.
	`)
	tooling := map[string]string{"typescript": "^5.5.4", "prettier": "^3.3.3"}
	return []Bundle{
		{
			Category: CategoryRoot, Choice: "node", Runtimes: []choices.Runtime{choices.RuntimeNode},
			Files:           []File{{".gitignore", Static(gitignore)}, {"README.md", readme}},
			DevDependencies: tooling,
			Scripts:         map[string]string{"build": "tsc -b", "format": "prettier --write ."},
		},
		{
			Category: CategoryRoot, Choice: "bun", Runtimes: []choices.Runtime{choices.RuntimeBun},
			Files:           []File{{".gitignore", Static(gitignore)}, {"README.md", readme}},
			DevDependencies: map[string]string{"typescript": "^5.5.4", "prettier": "^3.3.3", "@types/bun": "^1.1.6"},
			Scripts:         map[string]string{"build": "tsc -b", "format": "prettier --write ."},
		},
		{
			Category: CategoryRoot, Choice: "deno", Runtimes: []choices.Runtime{choices.RuntimeDeno},
			Files:   []File{{".gitignore", Static(gitignore)}, {"README.md", readme}},
			Scripts: map[string]string{"check": "deno check **/*.ts", "fmt": "deno fmt"},
		},
	}
}

func packageBundles() []Bundle {
	return []Bundle{
		{
			Category: CategoryPackage, Choice: "types", TargetKinds: []string{"types"},
			Files: []File{{"src/index.ts", Static(`
				export type Id = string;

				export type Result<T, E = Error> =
				  | { ok: true; value: T }
				  | { ok: false; error: E };
			`)}},
			Scripts: map[string]string{"build": "tsc -b"},
		},
		{
			Category: CategoryPackage, Choice: "utils", TargetKinds: []string{"utils"}, Requires: []string{"types"},
			Files: []File{{"src/index.ts", Text("utils-index", `
				{{- if .DependsOn "types"}}import type { Result } from "{{.DepName "types"}}";

				export function ok<T>(value: T): Result<T> {
				  return { ok: true, value };
				}
				{{- else}}export function ok<T>(value: T) {
				  return { ok: true as const, value };
				}
				{{- end}}

				export function invariant(cond: unknown, msg: string): asserts cond {
				  if (!cond) throw new Error(msg);
				}
			`)}},
			Scripts: map[string]string{"build": "tsc -b"},
		},
		{
			Category: CategoryPackage, Choice: "config", TargetKinds: []string{"config"},
			Files: []File{{"README.md", Text("config-readme", `
				# {{.PackageName}}

				Shared compiler, lint and format configuration. Node configs extend
				these files by relative path; edit them here to change every package.
			`)}},
			DevDependencies: map[string]string{
				"typescript":                       "^5.5.4",
				"eslint":                           "^8.57.0",
				"@typescript-eslint/parser":        "^7.18.0",
				"@typescript-eslint/eslint-plugin": "^7.18.0",
				"prettier":                         "^3.3.3",
			},
		},
		{
			Category: CategoryPackage, Choice: "validation", TargetKinds: []string{"validation"}, Requires: []string{"types"},
			Files: []File{{"src/index.ts", Text("validation-index", `
				import { z } from "zod";

				export const idSchema = z.string().min(1);
				{{- if .DependsOn "types"}}

				export type { Id } from "{{.DepName "types"}}";
				{{- end}}
			`)}},
			Dependencies: map[string]string{"zod": "^3.23.8"},
			Scripts:      map[string]string{"build": "tsc -b"},
		},
		{
			Category: CategoryPackage, Choice: "database", TargetKinds: []string{"database"}, Requires: []string{"types"},
			Files: []File{{"src/index.ts", Text("database-index", `
				{{- if eq (print .ORM) "prisma"}}export * from "./client";
				{{- else if eq (print .ORM) "drizzle"}}export * from "./schema";
				export * from "./client";
				{{- else}}export * from "./db";
				{{- end}}
			`)}},
			DevDependencies: map[string]string{"@types/node": "^20.14.0"},
			Scripts:         map[string]string{"build": "tsc -b"},
		},
		{
			Category: CategoryPackage, Choice: "ui", TargetKinds: []string{"ui"}, Requires: []string{"types", "utils"},
			Files: []File{
				{"src/index.ts", Static(`
					export { Button } from "./Button";
					export type { ButtonProps } from "./Button";
				`)},
				{"src/Button.tsx", Static(`
					import type { ButtonHTMLAttributes } from "react";

					export type ButtonProps = ButtonHTMLAttributes<HTMLButtonElement>;

					export function Button(props: ButtonProps) {
					  return <button type="button" {...props} />;
					}
				`)},
			},
			Dependencies:    map[string]string{"react": "^18.3.1"},
			DevDependencies: map[string]string{"@types/react": "^18.3.3"},
			Scripts:         map[string]string{"build": "tsc -b"},
		},
	}
}

func ormBundles() []Bundle {
	db := []string{"database"}
	return []Bundle{
		{
			Category: CategoryORM, Choice: "drizzle", TargetKinds: db,
			Files: []File{
				{"src/schema.ts", Static(`
					import { pgTable, serial, text, timestamp } from "drizzle-orm/pg-core";

					export const users = pgTable("users", {
					  id: serial("id").primaryKey(),
					  email: text("email").notNull().unique(),
					  createdAt: timestamp("created_at").defaultNow().notNull(),
					});
				`)},
				{"src/client.ts", Static(`
					import { drizzle } from "drizzle-orm/node-postgres";
					import pg from "pg";
					import * as schema from "./schema";

					const pool = new pg.Pool({ connectionString: process.env.DATABASE_URL });

					export const db = drizzle(pool, { schema });
				`)},
				{"drizzle.config.ts", Static(`
					import { defineConfig } from "drizzle-kit";

					export default defineConfig({
					  schema: "./src/schema.ts",
					  out: "./drizzle",
					  dialect: "postgresql",
					  dbCredentials: { url: process.env.DATABASE_URL ?? "" },
					});
				`)},
			},
			Dependencies:    map[string]string{"drizzle-orm": "^0.33.0", "pg": "^8.12.0"},
			DevDependencies: map[string]string{"drizzle-kit": "^0.24.0", "@types/pg": "^8.11.6"},
			Scripts:         map[string]string{"db:generate": "drizzle-kit generate", "db:migrate": "drizzle-kit migrate"},
		},
		{
			Category: CategoryORM, Choice: "prisma", TargetKinds: db,
			Files: []File{
				{"prisma/schema.prisma", Static(`
					generator client {
					  provider = "prisma-client-js"
					}

					datasource db {
					  provider = "postgresql"
					  url      = env("DATABASE_URL")
					}

					model User {
					  id        Int      @id @default(autoincrement())
					  email     String   @unique
					  createdAt DateTime @default(now())
					}
				`)},
				{"src/client.ts", Static(`
					import { PrismaClient } from "@prisma/client";

					export const db = new PrismaClient();
				`)},
			},
			Dependencies:    map[string]string{"@prisma/client": "^5.18.0"},
			DevDependencies: map[string]string{"prisma": "^5.18.0"},
			Scripts:         map[string]string{"db:generate": "prisma generate", "db:migrate": "prisma migrate dev"},
		},
		{
			Category: CategoryORM, Choice: "kysely", TargetKinds: db,
			Files: []File{{"src/db.ts", Static(`
				import { Kysely, PostgresDialect } from "kysely";
				import pg from "pg";

				export interface Database {
				  users: { id: number; email: string };
				}

				export const db = new Kysely<Database>({
				  dialect: new PostgresDialect({
				    pool: new pg.Pool({ connectionString: process.env.DATABASE_URL }),
				  }),
				});
			`)}},
			Dependencies:    map[string]string{"kysely": "^0.27.4", "pg": "^8.12.0"},
			DevDependencies: map[string]string{"@types/pg": "^8.11.6"},
		},
		{
			Category: CategoryORM, Choice: "raw", TargetKinds: db,
			Files: []File{{"src/db.ts", Static(`
				import pg from "pg";

				export const db = new pg.Pool({ connectionString: process.env.DATABASE_URL });
			`)}},
			Dependencies:    map[string]string{"pg": "^8.12.0"},
			DevDependencies: map[string]string{"@types/pg": "^8.11.6"},
		},
	}
}

func frameworkBundles() []Bundle {
	indexHTML := func(entry string) RenderFunc {
		return Text("index-html", `
			<!doctype html>
			<html lang="en">
			  <head>
			    <meta charset="UTF-8" />
			    <meta name="viewport" content="width=device-width, initial-scale=1.0" />
			    <title>{{.Title}}</title>
			  </head>
			  <body>
			    <div id="app"></div>
			    <script type="module" src="`+entry+`"></script>
			  </body>
			</html>
		`)
	}
	return []Bundle{
		{
			Category: CategoryFramework, Choice: "react", TargetKinds: uiApps,
			Files: []File{
				{"index.html", indexHTML("/src/main.tsx")},
				{"src/main.tsx", Static(`
					import { StrictMode } from "react";
					import { createRoot } from "react-dom/client";
					import { App } from "./App";

					createRoot(document.getElementById("app")!).render(
					  <StrictMode>
					    <App />
					  </StrictMode>,
					);
				`)},
				{"src/App.tsx", Text("react-app", `
					{{- if .DependsOn "ui"}}import { Button } from "{{.DepName "ui"}}";

					{{end -}}
					export function App() {
					  return (
					    <main>
					      <h1>{{.Title}}</h1>
					{{- if .DependsOn "ui"}}
					      <Button>Get started</Button>
					{{- end}}
					    </main>
					  );
					}
				`)},
				{"vite.config.ts", Static(`
					import { defineConfig } from "vite";
					import react from "@vitejs/plugin-react";

					export default defineConfig({
					  plugins: [react()],
					});
				`)},
			},
			Dependencies: map[string]string{"react": "^18.3.1", "react-dom": "^18.3.1"},
			DevDependencies: map[string]string{
				"vite": "^5.4.0", "@vitejs/plugin-react": "^4.3.1",
				"@types/react": "^18.3.3", "@types/react-dom": "^18.3.0",
				"eslint-plugin-react": "^7.35.0", "eslint-plugin-react-hooks": "^4.6.2",
			},
			Scripts: map[string]string{"dev": "vite", "build": "tsc -b && vite build", "preview": "vite preview"},
		},
		{
			Category: CategoryFramework, Choice: "vue", TargetKinds: uiApps,
			Files: []File{
				{"index.html", indexHTML("/src/main.ts")},
				{"src/main.ts", Static(`
					import { createApp } from "vue";
					import App from "./App.vue";

					createApp(App).mount("#app");
				`)},
				{"src/App.vue", Text("vue-app", `
					<script setup lang="ts">
					const title = "{{.Title}}";
					</script>

					<template>
					  <main>
					    <h1>{{"{{"}} title {{"}}"}}</h1>
					  </main>
					</template>
				`)},
				{"src/env.d.ts", Static(`
					/// <reference types="vite/client" />
				`)},
				{"vite.config.ts", Static(`
					import { defineConfig } from "vite";
					import vue from "@vitejs/plugin-vue";

					export default defineConfig({
					  plugins: [vue()],
					});
				`)},
			},
			Dependencies:    map[string]string{"vue": "^3.4.38"},
			DevDependencies: map[string]string{"vite": "^5.4.0", "@vitejs/plugin-vue": "^5.1.2", "vue-tsc": "^2.0.29", "eslint-plugin-vue": "^9.27.0"},
			Scripts:         map[string]string{"dev": "vite", "build": "vue-tsc -b && vite build"},
		},
		{
			Category: CategoryFramework, Choice: "nextjs", TargetKinds: uiApps, Runtimes: jsRuntimes,
			Files: []File{
				{"app/layout.tsx", Text("next-layout", `
					import type { ReactNode } from "react";

					export const metadata = { title: "{{.Title}}" };

					export default function RootLayout({ children }: { children: ReactNode }) {
					  return (
					    <html lang="en">
					      <body>{children}</body>
					    </html>
					  );
					}
				`)},
				{"app/page.tsx", Text("next-page", `
					{{- if .DependsOn "ui"}}import { Button } from "{{.DepName "ui"}}";

					{{end -}}
					export default function Page() {
					  return (
					    <main>
					      <h1>{{.Title}}</h1>
					{{- if .DependsOn "ui"}}
					      <Button>Get started</Button>
					{{- end}}
					    </main>
					  );
					}
				`)},
				{"next.config.mjs", Text("next-config", `
					/** @type {import("next").NextConfig} */
					const nextConfig = {
					{{- if .Internal}}
					  transpilePackages: [{{range $i, $d := .Internal}}{{if $i}}, {{end}}"{{$d.Name}}"{{end}}],
					{{- end}}
					};

					export default nextConfig;
				`)},
				{"next-env.d.ts", Static(`
					/// <reference types="next" />
					/// <reference types="next/image-types/global" />
				`)},
			},
			Dependencies:    map[string]string{"next": "^14.2.5", "react": "^18.3.1", "react-dom": "^18.3.1"},
			DevDependencies: map[string]string{"@types/react": "^18.3.3", "@types/react-dom": "^18.3.0", "eslint-config-next": "^14.2.5"},
			Scripts:         map[string]string{"dev": "next dev", "build": "next build", "start": "next start"},
		},
		{
			Category: CategoryFramework, Choice: "express", TargetKinds: backend, Runtimes: jsRuntimes,
			Files: []File{{"src/index.ts", Text("express-index", `
				import express from "express";
				{{- if .DependsOn "database"}}
				import { db } from "{{.DepName "database"}}";
				{{- end}}

				const app = express();
				app.use(express.json());

				app.get("/health", (_req, res) => {
				  res.json({ ok: true, service: "{{.NodeName}}" });
				});
				{{- if .DependsOn "database"}}

				export { db };
				{{- end}}

				const port = Number(process.env.PORT ?? 3000);
				app.listen(port, () => console.log("{{.NodeName}} listening on " + port));
			`)}},
			Dependencies:    map[string]string{"express": "^4.19.2"},
			DevDependencies: map[string]string{"@types/express": "^4.17.21", "@types/node": "^20.14.0", "tsx": "^4.17.0"},
			Scripts:         map[string]string{"dev": "tsx watch src/index.ts", "build": "tsc -b", "start": "node dist/index.js"},
		},
		{
			Category: CategoryFramework, Choice: "hono", TargetKinds: backend,
			Files: []File{{"src/index.ts", Text("hono-index", `
				import { Hono } from "hono";
				{{- if eq (print .Runtime) "node"}}
				import { serve } from "@hono/node-server";
				{{- end}}

				const app = new Hono();

				app.get("/health", (c) => c.json({ ok: true, service: "{{.NodeName}}" }));
				{{- if eq (print .Runtime) "node"}}

				serve({ fetch: app.fetch, port: Number(process.env.PORT ?? 3000) });
				{{- else if eq (print .Runtime) "deno"}}

				Deno.serve(app.fetch);
				{{- else}}

				export default app;
				{{- end}}
			`)}},
			Dependencies: map[string]string{"hono": "^4.5.5", "@hono/node-server": "^1.12.1"},
			Scripts:      map[string]string{"build": "tsc -b"},
		},
		{
			Category: CategoryFramework, Choice: "fastify", TargetKinds: backend, Runtimes: []choices.Runtime{choices.RuntimeNode},
			Files: []File{{"src/index.ts", Text("fastify-index", `
				import Fastify from "fastify";

				const app = Fastify({ logger: true });

				app.get("/health", async () => ({ ok: true, service: "{{.NodeName}}" }));

				await app.listen({ port: Number(process.env.PORT ?? 3000) });
			`)}},
			Dependencies:    map[string]string{"fastify": "^4.28.1"},
			DevDependencies: map[string]string{"@types/node": "^20.14.0", "tsx": "^4.17.0"},
			Scripts:         map[string]string{"dev": "tsx watch src/index.ts", "build": "tsc -b", "start": "node dist/index.js"},
		},
		{
			Category: CategoryFramework, Choice: "elysia", TargetKinds: backend, Runtimes: []choices.Runtime{choices.RuntimeBun},
			Files: []File{{"src/index.ts", Text("elysia-index", `
				import { Elysia } from "elysia";

				new Elysia()
				  .get("/health", () => ({ ok: true, service: "{{.NodeName}}" }))
				  .listen(Number(process.env.PORT ?? 3000));
			`)}},
			Dependencies: map[string]string{"elysia": "^1.1.5"},
			Scripts:      map[string]string{"dev": "bun --watch src/index.ts", "build": "tsc -b"},
		},
		{
			Category: CategoryFramework, Choice: "expo", TargetKinds: []string{string(choices.AppMobile)}, Runtimes: jsRuntimes,
			Files: []File{
				{"App.tsx", Text("expo-app", `
					import { Text, View } from "react-native";

					export default function App() {
					  return (
					    <View style={{"{{"}} flex: 1, alignItems: "center", justifyContent: "center" {{"}}"}}>
					      <Text>{{.Title}}</Text>
					    </View>
					  );
					}
				`)},
				{"app.json", Text("expo-config", `
					{
					  "expo": {
					    "name": "{{.Title}}",
					    "slug": "{{.Project}}-{{.NodeName}}"
					  }
					}
				`)},
			},
			Dependencies:    map[string]string{"expo": "^51.0.0", "react": "^18.2.0", "react-native": "^0.74.5"},
			DevDependencies: map[string]string{"@types/react": "^18.2.79"},
			Scripts:         map[string]string{"start": "expo start", "android": "expo start --android", "ios": "expo start --ios"},
		},
	}
}

func stylingBundles() []Bundle {
	return []Bundle{
		{
			Category: CategoryStyling, Choice: "tailwind", TargetKinds: uiApps,
			Files: []File{
				{"tailwind.config.ts", Text("tailwind-config", `
					import type { Config } from "tailwindcss";

					export default {
					  content: [
					    "./index.html",
					    "./src/**/*.{ts,tsx,vue}",
					    "./app/**/*.{ts,tsx}",
					{{- if .DependsOn "ui"}}
					    "{{.DepRel "ui"}}/src/**/*.{ts,tsx}",
					{{- end}}
					  ],
					} satisfies Config;
				`)},
				{"postcss.config.mjs", Static(`
					export default {
					  plugins: { tailwindcss: {}, autoprefixer: {} },
					};
				`)},
				{"src/styles.css", Static(`
					@tailwind base;
					@tailwind components;
					@tailwind utilities;
				`)},
			},
			DevDependencies: map[string]string{"tailwindcss": "^3.4.10", "postcss": "^8.4.41", "autoprefixer": "^10.4.20", "prettier-plugin-tailwindcss": "^0.6.6"},
		},
		{
			Category: CategoryStyling, Choice: "unocss", TargetKinds: uiApps,
			Files: []File{{"uno.config.ts", Static(`
				import { defineConfig, presetUno } from "unocss";

				export default defineConfig({
				  presets: [presetUno()],
				});
			`)}},
			DevDependencies: map[string]string{"unocss": "^0.62.2"},
		},
		{
			Category: CategoryStyling, Choice: "css-modules", TargetKinds: uiApps,
			Files: []File{{"src/app.module.css", Static(`
				.root {
				  margin: 0 auto;
				  max-width: 64rem;
				}
			`)}},
		},
		{
			Category: CategoryStyling, Choice: "styled-components", TargetKinds: allUIApps, Frameworks: reactLike,
			Files: []File{{"src/theme.ts", Static(`
				export const theme = {
				  colors: { primary: "#2563eb", text: "#111827" },
				  space: [0, 4, 8, 16, 32],
				} as const;
			`)}},
			Dependencies: map[string]string{"styled-components": "^6.1.12"},
		},
	}
}

func stateBundles() []Bundle {
	return []Bundle{
		{
			Category: CategoryState, Choice: "zustand", TargetKinds: allUIApps, Frameworks: reactLike,
			Files: []File{{"src/store.ts", Static(`
				import { create } from "zustand";

				type CounterState = { count: number; increment: () => void };

				export const useCounter = create<CounterState>((set) => ({
				  count: 0,
				  increment: () => set((s) => ({ count: s.count + 1 })),
				}));
			`)}},
			Dependencies: map[string]string{"zustand": "^4.5.5"},
		},
		{
			Category: CategoryState, Choice: "redux", TargetKinds: allUIApps, Frameworks: reactLike,
			Files: []File{{"src/store.ts", Static(`
				import { configureStore, createSlice } from "@reduxjs/toolkit";

				const counter = createSlice({
				  name: "counter",
				  initialState: { count: 0 },
				  reducers: {
				    increment: (state) => {
				      state.count += 1;
				    },
				  },
				});

				export const { increment } = counter.actions;
				export const store = configureStore({ reducer: { counter: counter.reducer } });
				export type RootState = ReturnType<typeof store.getState>;
			`)}},
			Dependencies: map[string]string{"@reduxjs/toolkit": "^2.2.7", "react-redux": "^9.1.2"},
		},
		{
			Category: CategoryState, Choice: "pinia", TargetKinds: uiApps, Frameworks: []string{"vue"},
			Files: []File{{"src/stores/counter.ts", Static(`
				import { defineStore } from "pinia";

				export const useCounter = defineStore("counter", {
				  state: () => ({ count: 0 }),
				  actions: {
				    increment() {
				      this.count += 1;
				    },
				  },
				});
			`)}},
			Dependencies: map[string]string{"pinia": "^2.2.2"},
		},
		{
			Category: CategoryState, Choice: "jotai", TargetKinds: allUIApps, Frameworks: reactLike,
			Files: []File{{"src/atoms.ts", Static(`
				import { atom } from "jotai";

				export const countAtom = atom(0);
			`)}},
			Dependencies: map[string]string{"jotai": "^2.9.3"},
		},
	}
}

func testingBundles() []Bundle {
	return []Bundle{
		{
			Category: CategoryTesting, Choice: "vitest",
			Files: []File{
				{"vitest.config.ts", Static(`
					import { defineConfig } from "vitest/config";

					export default defineConfig({
					  test: { include: ["src/**/*.test.ts", "src/**/*.test.tsx"] },
					});
				`)},
				{"src/smoke.test.ts", Text("vitest-smoke", `
					import { describe, expect, it } from "vitest";

					describe("{{.NodeName}}", () => {
					  it("runs", () => {
					    expect(1 + 1).toBe(2);
					  });
					});
				`)},
			},
			DevDependencies: map[string]string{"vitest": "^2.0.5"},
			Scripts:         map[string]string{"test": "vitest run"},
		},
		{
			Category: CategoryTesting, Choice: "jest", Runtimes: jsRuntimes,
			Files: []File{
				{"jest.config.ts", Static(`
					import type { Config } from "jest";

					const config: Config = {
					  preset: "ts-jest",
					  testMatch: ["**/?(*.)spec.ts"],
					};

					export default config;
				`)},
				{"src/smoke.spec.ts", Text("jest-smoke", `
					describe("{{.NodeName}}", () => {
					  it("runs", () => {
					    expect(1 + 1).toBe(2);
					  });
					});
				`)},
			},
			DevDependencies: map[string]string{"jest": "^29.7.0", "ts-jest": "^29.2.4", "@types/jest": "^29.5.12"},
			Scripts:         map[string]string{"test": "jest"},
		},
		{
			Category: CategoryTesting, Choice: "playwright", TargetKinds: uiApps, Runtimes: jsRuntimes,
			Files: []File{
				{"playwright.config.ts", Static(`
					import { defineConfig } from "@playwright/test";

					export default defineConfig({
					  testDir: "./e2e",
					  use: { baseURL: "http://localhost:5173" },
					});
				`)},
				{"e2e/home.spec.ts", Text("playwright-home", `
					import { expect, test } from "@playwright/test";

					test("home page renders", async ({ page }) => {
					  await page.goto("/");
					  await expect(page.getByRole("heading")).toHaveText("{{.Title}}");
					});
				`)},
			},
			DevDependencies: map[string]string{"@playwright/test": "^1.46.1"},
			Scripts:         map[string]string{"test:e2e": "playwright test"},
		},
	}
}

func authBundles() []Bundle {
	return []Bundle{
		{
			Category: CategoryAuth, Choice: "authjs", Frameworks: []string{"nextjs", "express", "hono"},
			Files: []File{{"src/auth.ts", Static(`
				import { Auth } from "@auth/core";
				import GitHub from "@auth/core/providers/github";

				export const authConfig = {
				  providers: [GitHub],
				  secret: process.env.AUTH_SECRET,
				  trustHost: true,
				};

				export function handleAuth(request: Request) {
				  return Auth(request, authConfig);
				}
			`)}},
			Dependencies: map[string]string{"@auth/core": "^0.34.2"},
		},
		{
			Category: CategoryAuth, Choice: "lucia", TargetKinds: backend,
			Files: []File{{"src/auth.ts", Text("lucia-auth", `
				import { Lucia } from "lucia";
				import type { Adapter } from "lucia";

				export function createAuth(adapter: Adapter) {
				  return new Lucia(adapter, {
				    sessionCookie: { attributes: { secure: process.env.NODE_ENV === "production" } },
				  });
				}
			`)}},
			Dependencies: map[string]string{"lucia": "^3.2.0"},
		},
	}
}
