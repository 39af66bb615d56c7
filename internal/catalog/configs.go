package catalog

func defaultConfigs() []ConfigDef {
	return []ConfigDef{
		{ID: "compiler/base", Category: ConfigCompiler, Base: true, File: "base.json", Render: Static(`
			{
			  "$schema": "https://json.schemastore.org/tsconfig",
			  "compilerOptions": {
			    "target": "ES2022",
			    "module": "ESNext",
			    "moduleResolution": "Bundler",
			    "strict": true,
			    "composite": true,
			    "declaration": true,
			    "declarationMap": true,
			    "esModuleInterop": true,
			    "forceConsistentCasingInFileNames": true,
			    "isolatedModules": true,
			    "resolveJsonModule": true,
			    "skipLibCheck": true
			  }
			}
		`)},
		{ID: "compiler/react", Category: ConfigCompiler, File: "tsconfig.react.json", Render: Static(`
			{
			  "compilerOptions": {
			    "jsx": "react-jsx",
			    "lib": ["DOM", "DOM.Iterable", "ES2022"]
			  }
			}
		`)},
		{ID: "compiler/vue", Category: ConfigCompiler, File: "tsconfig.vue.json", Render: Static(`
			{
			  "compilerOptions": {
			    "jsx": "preserve",
			    "lib": ["DOM", "DOM.Iterable", "ES2022"],
			    "types": ["vite/client"]
			  }
			}
		`)},
		{ID: "compiler/next", Category: ConfigCompiler, File: "tsconfig.next.json", Render: Static(`
			{
			  "compilerOptions": {
			    "jsx": "preserve",
			    "lib": ["DOM", "DOM.Iterable", "ES2022"],
			    "allowJs": true,
			    "noEmit": true,
			    "plugins": [{ "name": "next" }]
			  }
			}
		`)},
		{ID: "compiler/node", Category: ConfigCompiler, File: "tsconfig.node.json", Render: Static(`
			{
			  "compilerOptions": {
			    "module": "NodeNext",
			    "moduleResolution": "NodeNext",
			    "lib": ["ES2022"],
			    "types": ["node"]
			  }
			}
		`)},
		{ID: "compiler/react-native", Category: ConfigCompiler, File: "tsconfig.react-native.json", Render: Static(`
			{
			  "compilerOptions": {
			    "jsx": "react-native",
			    "lib": ["ES2022"],
			    "noEmit": true
			  }
			}
		`)},

		{ID: "lint/base", Category: ConfigLint, Base: true, File: "eslint.base.json", Render: Static(`
			{
			  "parser": "@typescript-eslint/parser",
			  "plugins": ["@typescript-eslint"],
			  "extends": ["eslint:recommended", "plugin:@typescript-eslint/recommended"],
			  "ignorePatterns": ["dist", "node_modules", ".wsgen"]
			}
		`)},
		{ID: "lint/react", Category: ConfigLint, File: "eslint.react.json", Render: Static(`
			{
			  "extends": ["plugin:react/recommended", "plugin:react-hooks/recommended"],
			  "settings": { "react": { "version": "detect" } },
			  "rules": { "react/react-in-jsx-scope": "off" }
			}
		`)},
		{ID: "lint/vue", Category: ConfigLint, File: "eslint.vue.json", Render: Static(`
			{
			  "extends": ["plugin:vue/vue3-recommended"],
			  "parserOptions": { "parser": "@typescript-eslint/parser" }
			}
		`)},
		{ID: "lint/next", Category: ConfigLint, File: "eslint.next.json", Render: Static(`
			{
			  "extends": ["next/core-web-vitals"]
			}
		`)},
		{ID: "lint/node", Category: ConfigLint, File: "eslint.node.json", Render: Static(`
			{
			  "env": { "node": true, "es2022": true }
			}
		`)},

		{ID: "format/base", Category: ConfigFormat, Base: true, File: "prettier.base.mjs", Render: Static(`
			export default {
			  semi: true,
			  singleQuote: false,
			  trailingComma: "all",
			  printWidth: 100,
			};
		`)},
		{ID: "format/tailwind", Category: ConfigFormat, File: "prettier.tailwind.mjs", Render: Static(`
			export default {
			  plugins: ["prettier-plugin-tailwindcss"],
			};
		`)},
		{ID: "format/unocss", Category: ConfigFormat, File: "prettier.unocss.mjs", Render: Static(`
			export default {
			  overrides: [{ files: "uno.config.ts", options: { printWidth: 120 } }],
			};
		`)},
	}
}

func defaultOverrides() map[string][]Override {
	react := []Override{{ConfigCompiler, "compiler/react"}, {ConfigLint, "lint/react"}}
	node := []Override{{ConfigCompiler, "compiler/node"}, {ConfigLint, "lint/node"}}
	return map[string][]Override{
		"framework/react":   react,
		"framework/vue":     {{ConfigCompiler, "compiler/vue"}, {ConfigLint, "lint/vue"}},
		"framework/nextjs":  {{ConfigCompiler, "compiler/next"}, {ConfigLint, "lint/next"}},
		"framework/expo":    {{ConfigCompiler, "compiler/react-native"}, {ConfigLint, "lint/react"}},
		"framework/express": node,
		"framework/hono":    node,
		"framework/fastify": node,
		"framework/elysia":  node,
		"styling/tailwind":  {{ConfigFormat, "format/tailwind"}},
		"styling/unocss":    {{ConfigFormat, "format/unocss"}},
		"package/ui":        react,
		"package/database":  node,
	}
}
